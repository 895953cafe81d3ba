package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const maxSlug = 32

// Cache stores synthesized MP3s on disk under dir and serves them under
// urlPrefix. Existing files are reused.
type Cache struct {
	dir       string
	urlPrefix string
}

func NewCache(dir, urlPrefix string) *Cache {
	return &Cache{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Key names the cache entry for text rendered with the given parameters.
func Key(engine string, req Request, voiceName string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%.2f|%.2f|%s", engine, req.Lang, voiceName, req.Rate, req.Pitch, req.Text)))
	slug := slugify(req.Text)
	if slug == "" {
		slug = "fala"
	}
	return fmt.Sprintf("%s_%s_%s.mp3", engine, slug, hex.EncodeToString(sum[:6]))
}

func slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if b.Len() >= maxSlug {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func (c *Cache) clip(name string) Clip {
	return Clip{Path: filepath.Join(c.dir, name), URL: path.Join(c.urlPrefix, name)}
}

// Lookup returns the cached clip for name if the file exists.
func (c *Cache) Lookup(name string) (Clip, bool) {
	clip := c.clip(name)
	if _, err := os.Stat(clip.Path); err != nil {
		return Clip{}, false
	}
	return clip, true
}

// Store writes r to the cache under name. A partial file is removed on
// failure.
func (c *Cache) Store(name string, r io.Reader) (Clip, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return Clip{}, fmt.Errorf("creating speech cache: %w", err)
	}
	clip := c.clip(name)
	tmp, err := os.CreateTemp(c.dir, name+".*.part")
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Clip{}, fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Clip{}, err
	}
	if err := os.Rename(tmp.Name(), clip.Path); err != nil {
		os.Remove(tmp.Name())
		return Clip{}, err
	}
	return clip, nil
}
