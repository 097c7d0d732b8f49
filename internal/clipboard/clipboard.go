package clipboard

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	sysclip "github.com/atotto/clipboard"
)

// Attachment is a file extracted from the clipboard.
type Attachment struct {
	FilePath string
	FileName string
	MimeType string
	Content  []byte
}

// Clipboard is the contract the composer consumes. HasAttachment and HasText
// are re-evaluated on every call; implementations must not cache results,
// since clipboard content can change between a capability check and the paste.
type Clipboard interface {
	HasAttachment() bool
	HasText() bool
	Text() (string, error)
	SetText(text string) error
	ExtractAttachment() (*Attachment, error)
}

// allowedExtensions are the file types accepted as pasteable attachments.
var allowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".pdf"}

// System reads the OS clipboard. Terminal clipboards transport text, so a
// "plausible attachment" is clipboard content naming an existing regular
// file with an allowed extension within the size cap.
type System struct {
	maxBytes int64
	read     func() (string, error)
	write    func(string) error
}

// NewSystem creates a system clipboard with the given attachment size cap in KB.
func NewSystem(maxKB int64) *System {
	return &System{
		maxBytes: maxKB * 1024,
		read:     sysclip.ReadAll,
		write:    sysclip.WriteAll,
	}
}

// HasAttachment reports whether the clipboard names a pasteable file.
func (s *System) HasAttachment() bool {
	content, err := s.read()
	if err != nil {
		return false
	}
	_, ok := s.attachmentPath(content)
	return ok
}

// HasText reports whether the clipboard holds plain text that is not a
// pasteable file reference.
func (s *System) HasText() bool {
	content, err := s.read()
	if err != nil {
		return false
	}
	if strings.TrimSpace(content) == "" {
		return false
	}
	_, isAttachment := s.attachmentPath(content)
	return !isAttachment
}

// Text returns the raw clipboard text.
func (s *System) Text() (string, error) {
	return s.read()
}

// SetText writes text to the clipboard.
func (s *System) SetText(text string) error {
	return s.write(text)
}

// ExtractAttachment reads the file named by the clipboard and sniffs its MIME
// type. Returns nil without error when the clipboard holds no attachment.
func (s *System) ExtractAttachment() (*Attachment, error) {
	content, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	path, ok := s.attachmentPath(content)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment %s: %w", path, err)
	}

	sniffLen := min(512, len(data))
	return &Attachment{
		FilePath: path,
		FileName: filepath.Base(path),
		MimeType: http.DetectContentType(data[:sniffLen]),
		Content:  data,
	}, nil
}

// attachmentPath resolves clipboard content to a pasteable file path.
func (s *System) attachmentPath(content string) (string, bool) {
	path := strings.TrimSpace(content)
	if path == "" || strings.ContainsRune(path, '\n') {
		return "", false
	}
	// Shells escape spaces when a file is dragged or copied as a path.
	path = strings.ReplaceAll(path, "\\ ", " ")

	ext := strings.ToLower(filepath.Ext(path))
	allowed := false
	for _, e := range allowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return "", false
	}
	return path, true
}
