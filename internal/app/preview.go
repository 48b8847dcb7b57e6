package app

import (
	"errors"
	"strings"
	"sync"
)

// ErrPreviewClosed is returned by operations on a closed preview.
var ErrPreviewClosed = errors.New("preview already closed")

// MessageSink receives the message once the preview is saved or closed.
type MessageSink interface {
	SetMessage(text string) error
}

// PreviewSession holds an editable copy of a generated message.
// Saving writes it to the sink; closing writes it only when it was edited.
type PreviewSession struct {
	mu       sync.Mutex
	sink     MessageSink
	original string
	current  string
	saved    string
	hasSaved bool
	closed   bool
}

// OpenPreview starts a preview of message.
func OpenPreview(message string, sink MessageSink) *PreviewSession {
	return &PreviewSession{
		sink:     sink,
		original: message,
		current:  message,
	}
}

// Content returns the current text.
func (p *PreviewSession) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Modified reports whether the text differs from the generated message.
func (p *PreviewSession) Modified() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modified()
}

func (p *PreviewSession) modified() bool {
	return p.current != p.original && strings.TrimSpace(p.current) != ""
}

// Update replaces the current text.
func (p *PreviewSession) Update(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPreviewClosed
	}
	p.current = text
	return nil
}

// Save writes the current text to the sink and reports whether it did.
// An empty text is not written.
func (p *PreviewSession) Save() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false, ErrPreviewClosed
	}
	if strings.TrimSpace(p.current) == "" {
		return false, nil
	}
	if err := p.write(); err != nil {
		return false, err
	}
	return true, nil
}

// Close ends the session, writing edited text that was not saved yet.
func (p *PreviewSession) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPreviewClosed
	}
	p.closed = true

	if !p.modified() || (p.hasSaved && p.saved == p.current) {
		return nil
	}
	return p.write()
}

func (p *PreviewSession) write() error {
	if err := p.sink.SetMessage(p.current); err != nil {
		return err
	}
	p.saved = p.current
	p.hasSaved = true
	return nil
}
