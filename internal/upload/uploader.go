// Package upload implements the image upload pipeline: validate the chosen
// file, encode it as a data URI, POST it and report the outcome.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/almaghboub/FixerUpper/internal/apiclient"
	"github.com/almaghboub/FixerUpper/internal/domain"
	"github.com/almaghboub/FixerUpper/internal/notify"
)

type State int

const (
	Idle State = iota
	Validating
	Encoding
	Uploading
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Encoding:
		return "encoding"
	case Uploading:
		return "uploading"
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// API is the part of the backend the uploader needs.
type API interface {
	UploadImage(ctx context.Context, req domain.UploadRequest) (domain.UploadResult, error)
}

// Input is the file picker control. Reset clears its selection so the same
// file can be chosen again.
type Input interface {
	Reset()
}

type InputFunc func()

func (f InputFunc) Reset() { f() }

type Options struct {
	// OnUploaded receives the server URL of each successful upload.
	OnUploaded func(imageURL string)
	// OnRemoved is called when the user clears the uploaded image.
	OnRemoved func()
	// OnStateChange observes every transition, terminal ones included.
	OnStateChange func(State)
	Input         Input
	Notifier      notify.Notifier
	Log           *zap.Logger
}

type Uploader struct {
	api  API
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	state   State
	preview string
}

func New(api API, opts Options) *Uploader {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewZap(log)
	}
	return &Uploader{api: api, opts: opts, log: log}
}

func (u *Uploader) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Busy reports whether the upload control should be disabled.
func (u *Uploader) Busy() bool {
	switch u.State() {
	case Validating, Encoding, Uploading:
		return true
	}
	return false
}

// Preview is the data URI of the last uploaded image, or empty.
func (u *Uploader) Preview() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.preview
}

func (u *Uploader) setState(s State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
	if u.opts.OnStateChange != nil {
		u.opts.OnStateChange(s)
	}
}

// Upload runs the pipeline for f and returns the server URL. Rejections end
// the run before any request is made.
func (u *Uploader) Upload(ctx context.Context, f File) (string, error) {
	u.mu.Lock()
	if u.state != Idle {
		u.mu.Unlock()
		return "", ErrBusy
	}
	u.state = Validating
	u.mu.Unlock()
	if u.opts.OnStateChange != nil {
		u.opts.OnStateChange(Validating)
	}

	log := u.log.With(zap.String("file", f.Name()), zap.Int64("size", f.Size()))

	if err := Validate(f); err != nil {
		log.Info("File rejected", zap.Error(err))
		return "", u.fail(err)
	}

	u.setState(Encoding)
	dataURI, err := Encode(ctx, f)
	if err != nil {
		log.Warn("Failed to encode file", zap.Error(err))
		return "", u.fail(err)
	}

	u.setState(Uploading)
	res, err := u.api.UploadImage(ctx, domain.UploadRequest{
		ImageData:   dataURI,
		ContentType: f.ContentType(),
	})
	if err != nil {
		err = classify(err)
		log.Warn("Upload failed", zap.Error(err))
		return "", u.fail(err)
	}

	u.mu.Lock()
	u.preview = dataURI
	u.mu.Unlock()
	u.setState(Succeeded)

	if u.opts.OnUploaded != nil {
		u.opts.OnUploaded(res.ImageURL)
	}
	u.opts.Notifier.Notify(notify.Notification{
		Title:       "Upload complete",
		Description: Message(nil),
		Severity:    notify.SeveritySuccess,
	})
	log.Info("Image uploaded", zap.String("url", res.ImageURL))

	u.finish()
	return res.ImageURL, nil
}

// Remove clears the uploaded image locally. The server copy is untouched.
func (u *Uploader) Remove() {
	u.mu.Lock()
	u.preview = ""
	u.mu.Unlock()

	if u.opts.OnRemoved != nil {
		u.opts.OnRemoved()
	}
	u.resetInput()
}

func (u *Uploader) fail(err error) error {
	u.setState(Failed)
	u.opts.Notifier.Notify(notify.Notification{
		Title:       "Upload failed",
		Description: Message(err),
		Severity:    notify.SeverityError,
	})
	u.finish()
	return err
}

func (u *Uploader) finish() {
	u.resetInput()
	u.setState(Idle)
}

func (u *Uploader) resetInput() {
	if u.opts.Input != nil {
		u.opts.Input.Reset()
	}
}

// classify turns a transport or API error into the upload taxonomy, keeping
// the cause in the chain.
func classify(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", ClassifyServerMessage(apiErr.Message), err)
	}
	return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
}
