package portal

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// CredentialJar holds the portal session credential for one base URL and can
// persist it between runs so the next start-up probe finds the session.
type CredentialJar struct {
	mu   sync.Mutex
	base *url.URL
	jar  *cookiejar.Jar
	path string
	log  zerolog.Logger
}

type credentialFile struct {
	BaseURL string             `yaml:"base_url"`
	Cookies []credentialCookie `yaml:"cookies"`
}

type credentialCookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// NewCredentialJar creates an empty jar for baseURL. When path is empty the
// credential lives only in memory.
func NewCredentialJar(baseURL, path string, log zerolog.Logger) (*CredentialJar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("credentials: parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("credentials: create jar: %w", err)
	}
	return &CredentialJar{
		base: base,
		jar:  jar,
		path: path,
		log:  log.With().Str("component", "credentials").Logger(),
	}, nil
}

// Attach adds the stored credential to req.
func (j *CredentialJar) Attach(req *http.Request) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range j.jar.Cookies(req.URL) {
		req.AddCookie(c)
	}
}

// Store records credentials set by resp and persists them when they changed.
func (j *CredentialJar) Store(resp *http.Response) {
	cookies := resp.Cookies()
	if len(cookies) == 0 || resp.Request == nil {
		return
	}

	j.mu.Lock()
	j.jar.SetCookies(resp.Request.URL, cookies)
	j.mu.Unlock()

	if err := j.Save(); err != nil {
		j.log.Warn().Err(err).Msg("failed to persist session credential")
	}
}

// Empty reports whether no credential is held for the base URL.
func (j *CredentialJar) Empty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.jar.Cookies(j.base)) == 0
}

// Load reads a previously saved credential. A missing file or one written for
// another base URL leaves the jar empty.
func (j *CredentialJar) Load() error {
	if j.path == "" {
		return nil
	}

	raw, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("credentials: read %s: %w", j.path, err)
	}

	var file credentialFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("credentials: parse %s: %w", j.path, err)
	}
	if file.BaseURL != j.base.String() {
		j.log.Debug().Str("saved_for", file.BaseURL).Msg("ignoring credential saved for another portal")
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(file.Cookies))
	for _, c := range file.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}

	j.mu.Lock()
	j.jar.SetCookies(j.base, cookies)
	j.mu.Unlock()
	return nil
}

// Save writes the current credential to disk, removing the file when the jar is empty.
func (j *CredentialJar) Save() error {
	if j.path == "" {
		return nil
	}

	j.mu.Lock()
	current := j.jar.Cookies(j.base)
	j.mu.Unlock()

	if len(current) == 0 {
		return j.removeFile()
	}

	file := credentialFile{BaseURL: j.base.String()}
	for _, c := range current {
		file.Cookies = append(file.Cookies, credentialCookie{Name: c.Name, Value: c.Value})
	}

	raw, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("credentials: create dir: %w", err)
	}
	if err := os.WriteFile(j.path, raw, 0o600); err != nil {
		return fmt.Errorf("credentials: write %s: %w", j.path, err)
	}
	return nil
}

// Clear drops the credential from memory and disk.
func (j *CredentialJar) Clear() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("credentials: create jar: %w", err)
	}

	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()

	return j.removeFile()
}

func (j *CredentialJar) removeFile() error {
	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("credentials: remove %s: %w", j.path, err)
	}
	return nil
}
