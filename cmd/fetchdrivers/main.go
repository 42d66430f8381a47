// Binary fetchdrivers downloads the WebDriver binaries (and optionally the
// browsers) the suite needs into the vendor directory referenced by the
// default configuration.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"storewalk/internal/download"
)

var (
	directory        = flag.String("directory", "vendor", "Directory to download binaries into.")
	downloadBrowsers = flag.Bool("download_browsers", false, "If true, also download the Chromium browser bundle.")
	chromiumBuild    = flag.String("chromium_build", "", "Specific Chromium snapshot build to download. Empty means the latest.")
	skipGecko        = flag.Bool("skip_geckodriver", false, "If true, do not download geckodriver.")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	var files []download.File

	chromium, err := download.Chromium(ctx, *chromiumBuild)
	if err != nil {
		glog.Exitf("Unable to locate the Chromium snapshot: %v", err)
	}
	for _, f := range chromium {
		if f.Browser && !*downloadBrowsers {
			glog.Infof("Skipping %q because --download_browsers is not set.", f.Name)
			continue
		}
		files = append(files, f)
	}

	if !*skipGecko {
		gecko, err := download.Geckodriver(ctx)
		if err != nil {
			glog.Exitf("Unable to locate the latest geckodriver: %v", err)
		}
		files = append(files, gecko)
	}

	if err := download.Fetch(files, *directory); err != nil {
		glog.Exit(err)
	}
	glog.Infof("All files downloaded into %q.", *directory)
}
