// Package download fetches the WebDriver binaries and browsers the suite
// drives. Files are hash-verified when a digest is known and extracted with
// the system archiver.
package download

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes one downloadable artifact.
type File struct {
	URL  string
	Name string
	// Hash is the expected digest in hex; empty skips verification.
	Hash string
	// HashType is md5, sha1 or sha256 (the default).
	HashType string
	// Rename maps an extracted path to its final name, as {from, to}.
	Rename []string
	// Browser marks full browser bundles, which are skipped unless
	// explicitly requested.
	Browser bool

	directory string
}

// Path is the file's on-disk location.
func (f File) Path() string {
	if f.directory != "" {
		return filepath.Join(f.directory, f.Name)
	}
	return f.Name
}

// minGeckodriver is the oldest geckodriver whose wire protocol this suite
// supports.
var minGeckodriver = semver.MustParse("0.30.0")

// Geckodriver locates the newest geckodriver release on GitHub that is at
// least minGeckodriver.
func Geckodriver(ctx context.Context) (File, error) {
	client := github.NewClient(nil)

	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, fmt.Errorf("fetching latest geckodriver release: %w", err)
	}
	version, err := semver.ParseTolerant(rel.GetTagName())
	if err != nil {
		return File{}, fmt.Errorf("geckodriver tag %q is not a version: %w", rel.GetTagName(), err)
	}
	if version.LT(minGeckodriver) {
		return File{}, fmt.Errorf("latest geckodriver %s is older than supported minimum %s", version, minGeckodriver)
	}

	assetRE := regexp.MustCompile(`geckodriver-.*linux64\.tar\.gz$`)
	for _, a := range rel.Assets {
		if !assetRE.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s has no download URL", a.GetName())
		}
		return File{URL: u, Name: "geckodriver.tar.gz"}, nil
	}
	return File{}, fmt.Errorf("no linux64 asset in geckodriver %s", version)
}

// Chromium locates a chromium snapshot and its matching chromedriver in the
// chromium-browser-snapshots GCS bucket. An empty build means the latest.
func Chromium(ctx context.Context, build string) ([]File, error) {
	const (
		bucketName     = "chromium-browser-snapshots"
		prefixLinux64  = "Linux_x64"
		lastChangeFile = "Linux_x64/LAST_CHANGE"
	)

	client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	bkt := client.Bucket(bucketName)

	if build == "" {
		r, err := bkt.Object(lastChangeFile).NewReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("opening gs://%s/%s: %w", bucketName, lastChangeFile, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading gs://%s/%s: %w", bucketName, lastChangeFile, err)
		}
		build = strings.TrimSpace(string(data))
	}

	var files []File
	for _, spec := range []struct {
		object, name string
		browser      bool
		rename       []string
	}{
		{object: "chrome-linux.zip", name: "chrome-linux.zip", browser: true},
		{object: "chromedriver_linux64.zip", name: "chromedriver.zip",
			rename: []string{"chromedriver_linux64/chromedriver", "chromedriver"}},
	} {
		objPath := path.Join(prefixLinux64, build, spec.object)
		attrs, err := bkt.Object(objPath).Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("stat gs://%s/%s: %w", bucketName, objPath, err)
		}
		files = append(files, File{
			URL:      attrs.MediaLink,
			Name:     spec.name,
			Hash:     hex.EncodeToString(attrs.MD5),
			HashType: "md5",
			Browser:  spec.browser,
			Rename:   spec.rename,
		})
	}
	return files, nil
}

// Fetch downloads every file into directory in parallel.
func Fetch(files []File, directory string) error {
	var wg errgroup.Group
	for _, file := range files {
		wg.Go(func() error {
			if err := fetchOne(file, directory); err != nil {
				return fmt.Errorf("handling %s: %w", file.Name, err)
			}
			return nil
		})
	}
	return wg.Wait()
}

func fetchOne(file File, directory string) error {
	file.directory = directory

	if file.Hash != "" && sameHash(file) {
		glog.Infof("Skipping %q which has already been downloaded.", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := downloadFile(file); err != nil {
			return err
		}
	}

	if err := extract(file); err != nil {
		return err
	}

	if rename := file.Rename; len(rename) == 2 {
		from := filepath.Join(file.directory, rename[0])
		to := filepath.Join(file.directory, rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

func downloadFile(file File) (err error) {
	f, err := os.Create(file.Path())
	if err != nil {
		return fmt.Errorf("creating %q: %w", file.Path(), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %q: %w", file.Path(), closeErr)
		}
	}()

	resp, err := http.Get(file.URL)
	if err != nil {
		return fmt.Errorf("downloading %q: %w", file.URL, err)
	}
	defer resp.Body.Close()

	if file.Hash == "" {
		if _, err := io.Copy(f, resp.Body); err != nil {
			return fmt.Errorf("downloading %q: %w", file.URL, err)
		}
		return nil
	}

	h := newHash(file.HashType)
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		return fmt.Errorf("downloading %q: %w", file.URL, err)
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("got %s hash %q, want %q", file.HashType, sum, file.Hash)
	}
	return nil
}

func newHash(hashType string) hash.Hash {
	switch strings.ToLower(hashType) {
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	default:
		return sha256.New()
	}
}

func sameHash(file File) bool {
	f, err := os.Open(file.Path())
	if err != nil {
		return false
	}
	defer f.Close()

	h := newHash(file.HashType)
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, want %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func extract(file File) error {
	dir := "."
	if file.directory != "" {
		dir = file.directory
	}

	var cmd []string
	switch path.Ext(file.Name) {
	case ".zip":
		cmd = []string{"unzip", "-d", dir, "-o", file.Path()}
	case ".gz":
		cmd = []string{"tar", "-xzf", file.Path(), "-C", dir}
	case ".bz2":
		cmd = []string{"tar", "-xjf", file.Path(), "-C", dir}
	default:
		return nil
	}

	glog.Infof("Extracting %q", file.Path())
	if err := exec.Command(cmd[0], cmd[1:]...).Run(); err != nil {
		return fmt.Errorf("extracting %q: %w", file.Name, err)
	}
	return nil
}
