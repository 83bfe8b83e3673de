package pdf

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
)

type BrowserConverterTestSuite struct {
	suite.Suite
	ctx  context.Context
	dir  string
	html string
	pdf  string
}

func TestBrowserConverterSuite(t *testing.T) {
	suite.Run(t, new(BrowserConverterTestSuite))
}

func (s *BrowserConverterTestSuite) SetupTest() {
	if runtime.GOOS == "windows" {
		s.T().Skip("fake browsers are shell scripts")
	}
	s.ctx = context.Background()
	s.dir = s.T().TempDir()
	s.html = filepath.Join(s.dir, "林默.html")
	s.pdf = filepath.Join(s.dir, "out", "林默.pdf")
	s.Require().NoError(os.WriteFile(s.html, []byte("<html></html>"), 0o600))
}

// fakeBrowser writes an executable script into the test directory.
func (s *BrowserConverterTestSuite) fakeBrowser(name, body string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func (s *BrowserConverterTestSuite) converter(browser string, timeout time.Duration) *BrowserConverter {
	c := NewBrowserConverter(&Config{Browser: browser, Timeout: timeout})
	c.candidates = nil
	c.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	return c
}

func (s *BrowserConverterTestSuite) TestConvertPassesArguments() {
	argsFile := filepath.Join(s.dir, "args.txt")
	browser := s.fakeBrowser("edge", `
for arg in "$@"; do echo "$arg" >> "`+argsFile+`"; done
for arg in "$@"; do
  case "$arg" in --print-to-pdf=*) echo "%PDF" > "${arg#--print-to-pdf=}";; esac
done`)

	err := s.converter(browser, time.Minute).Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.Require().NoError(err)

	data, err := os.ReadFile(argsFile)
	s.Require().NoError(err)
	s.Equal([]string{"--headless", "--disable-gpu", "--print-to-pdf=" + s.pdf, s.html},
		strings.Split(strings.TrimSpace(string(data)), "\n"))
	s.FileExists(s.pdf)
}

func (s *BrowserConverterTestSuite) TestConvertReportsExitStatus() {
	browser := s.fakeBrowser("edge", `echo "GPU process crashed" >&2
exit 3`)

	err := s.converter(browser, time.Minute).Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Contains(err.Error(), "status 3")
	s.Contains(err.Error(), "GPU process crashed")
	s.Equal("GPU process crashed\n", errors.GetMeta(err)["stderr"])
}

func (s *BrowserConverterTestSuite) TestConvertTimesOut() {
	browser := s.fakeBrowser("edge", "exec sleep 10")

	start := time.Now()
	err := s.converter(browser, 100*time.Millisecond).Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.Require().Error(err)
	s.True(errors.IsDeadlineExceeded(err))
	s.Less(time.Since(start), 5*time.Second)
}

func (s *BrowserConverterTestSuite) TestConvertWithoutOutputFile() {
	browser := s.fakeBrowser("edge", "exit 0")

	err := s.converter(browser, time.Minute).Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.True(errors.IsInternal(err))
}

func (s *BrowserConverterTestSuite) TestMissingBrowser() {
	err := s.converter(filepath.Join(s.dir, "no-such-browser"), time.Minute).
		Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	err = s.converter("", time.Minute).Convert(s.ctx, &ConvertInput{HTMLPath: s.html, PDFPath: s.pdf})
	s.True(errors.IsFailedPrecondition(err))
	s.NoFileExists(s.pdf)
}

func (s *BrowserConverterTestSuite) TestMissingHTML() {
	browser := s.fakeBrowser("edge", "exit 0")

	err := s.converter(browser, time.Minute).
		Convert(s.ctx, &ConvertInput{HTMLPath: filepath.Join(s.dir, "missing.html"), PDFPath: s.pdf})
	s.True(errors.IsNotFound(err))

	err = s.converter(browser, time.Minute).Convert(s.ctx, &ConvertInput{HTMLPath: s.html})
	s.True(errors.IsInvalidArgument(err))

	err = s.converter(browser, time.Minute).Convert(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *BrowserConverterTestSuite) TestFindBrowserOrder() {
	installed := s.fakeBrowser("msedge.exe", "exit 0")

	c := s.converter("", time.Minute)
	c.candidates = []string{filepath.Join(s.dir, "absent"), installed}
	found, err := c.FindBrowser()
	s.Require().NoError(err)
	s.Equal(installed, found)

	var looked []string
	c.candidates = nil
	c.lookPath = func(name string) (string, error) {
		looked = append(looked, name)
		if name == "chromium" {
			return "/usr/bin/chromium", nil
		}
		return "", exec.ErrNotFound
	}
	found, err = c.FindBrowser()
	s.Require().NoError(err)
	s.Equal("/usr/bin/chromium", found)
	s.Equal([]string{"msedge", "microsoft-edge", "google-chrome", "chromium"}, looked)

	c.browser = "my-chrome"
	c.lookPath = func(name string) (string, error) {
		if name == "my-chrome" {
			return "/opt/my-chrome", nil
		}
		return "", exec.ErrNotFound
	}
	found, err = c.FindBrowser()
	s.Require().NoError(err)
	s.Equal("/opt/my-chrome", found)
}

func (s *BrowserConverterTestSuite) TestNewSelectsEngine() {
	conv, err := New(&Config{})
	s.Require().NoError(err)
	s.IsType(&BrowserConverter{}, conv)
	s.Equal(DefaultTimeout, conv.(*BrowserConverter).timeout)

	conv, err = New(&Config{Engine: EngineRod, Timeout: time.Second})
	s.Require().NoError(err)
	s.IsType(&RodConverter{}, conv)

	_, err = New(&Config{Engine: "wkhtmltopdf"})
	s.True(errors.IsInvalidArgument(err))

	_, err = New(nil)
	s.Error(err)
}

func (s *BrowserConverterTestSuite) TestFileURL() {
	s.Equal("file:///tmp/a%20b/%E6%9E%97.html", FileURL("/tmp/a b/林.html"))
}
