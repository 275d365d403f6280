package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/raksh/borewell-capture/schema"
	"github.com/raksh/borewell-capture/utils"
)

const formLogPrefix = "form"

var ErrSubmitting = fmt.Errorf("a registration is already being submitted")

// Registrar saves a validated registration remotely.
type Registrar interface {
	Register(context.Context, schema.RegistrationPayload) (*schema.RegistrationResult, error)
}

// LocationSource is the asynchronous device position a form reconciles with.
type LocationSource interface {
	State() schema.GeolocationState
	Updates() <-chan schema.GeolocationState
}

// detailer is implemented by registrar errors carrying a message meant for the user.
type detailer interface {
	UserDetail() string
}

// SubmitError is a failed registry call together with the message shown to the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	return e.Message
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Form owns a registration draft and its submission lifecycle.
type Form struct {
	registrar Registrar
	location  LocationSource
	localizer *i18n.Localizer
	metrics   tally.Scope

	mu         sync.Mutex
	draft      Draft
	submitting bool
	err        string
	result     *schema.RegistrationResult
}

type Option func(*Form)

func WithLocalizer(l *i18n.Localizer) Option {
	return func(f *Form) {
		f.localizer = l
	}
}

func WithMetrics(scope tally.Scope) Option {
	return func(f *Form) {
		f.metrics = scope
	}
}

// WithDraft replaces the default initial draft.
func WithDraft(d Draft) Option {
	return func(f *Form) {
		f.draft = d
	}
}

// New mounts a form. location may be nil when the host offers no position.
func New(registrar Registrar, location LocationSource, opts ...Option) *Form {
	f := &Form{
		registrar: registrar,
		location:  location,
		metrics:   tally.NoopScope,
		draft:     NewDraft(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) localize(msg *i18n.Message) string {
	return utils.Localize(f.localizer, msg)
}

// Update applies user edits. It is allowed at any time, even while submitting.
func (f *Form) Update(p DraftPatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.apply(&f.draft)
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// ApplyLocation seeds the coordinates from a device fix. Each coordinate is
// written only while its field is empty, so typed values are never replaced.
func (f *Form) ApplyLocation(state schema.GeolocationState) {
	if !state.HasCoordinates() {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	seeded := false
	if f.draft.Latitude == "" {
		f.draft.Latitude = utils.FormatCoordinate(*state.Latitude)
		seeded = true
	}
	if f.draft.Longitude == "" {
		f.draft.Longitude = utils.FormatCoordinate(*state.Longitude)
		seeded = true
	}

	if seeded {
		log.WithFields(log.Fields{
			"prefix": formLogPrefix,
			"lat":    f.draft.Latitude,
			"lng":    f.draft.Longitude,
		}).Debug("seeded coordinates from device location")
	}
}

// Watch waits for the location source to resolve and applies the result.
// Nothing is applied once ctx is done.
func (f *Form) Watch(ctx context.Context) {
	if f.location == nil {
		return
	}

	select {
	case state, ok := <-f.location.Updates():
		if !ok || ctx.Err() != nil {
			return
		}
		f.ApplyLocation(state)
	case <-ctx.Done():
	}
}

// UseDeviceLocation overwrites both coordinates with the latest fix. Without a
// fix the probe error, or a hint that detection is still running, becomes the
// form error. It reports whether the coordinates were replaced.
func (f *Form) UseDeviceLocation() bool {
	var state schema.GeolocationState
	if f.location != nil {
		state = f.location.State()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case state.HasCoordinates():
		f.draft.Latitude = utils.FormatCoordinate(*state.Latitude)
		f.draft.Longitude = utils.FormatCoordinate(*state.Longitude)
		f.err = ""
		return true
	case state.Error != "":
		f.err = state.Error
	default:
		f.err = f.localize(msgDetectingLocation)
	}
	return false
}

// Submit validates the draft and sends it to the registrar. A validation
// failure returns a *ValidationError and makes no call. A registrar failure
// returns a *SubmitError.
func (f *Form) Submit(ctx context.Context) (*schema.RegistrationResult, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitting
	}

	f.result = nil
	f.err = ""

	payload, err := f.draft.Payload()
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			f.err = f.localize(verr.Message)
		} else {
			f.err = err.Error()
		}
		f.mu.Unlock()

		log.WithFields(log.Fields{
			"prefix": formLogPrefix,
			"error":  err,
		}).Debug("draft rejected")
		f.metrics.Counter("submit.invalid").Inc(1)
		return nil, err
	}

	f.submitting = true
	f.mu.Unlock()

	result, err := f.registrar.Register(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err == nil && result == nil {
		err = fmt.Errorf("registrar returned no result")
	}

	if err != nil {
		f.result = nil
		f.err = f.failureMessage(err)

		log.WithFields(log.Fields{
			"prefix": formLogPrefix,
			"error":  err,
		}).Info("registration failed")
		f.metrics.Counter("submit.failure").Inc(1)
		return nil, &SubmitError{Message: f.err, Err: err}
	}

	f.result = result
	f.err = ""

	log.WithFields(log.Fields{
		"prefix": formLogPrefix,
		"id":     result.ID,
	}).Info("borewell registered")
	f.metrics.Counter("submit.success").Inc(1)
	return result, nil
}

func (f *Form) failureMessage(err error) string {
	var d detailer
	if errors.As(err, &d) {
		if detail := d.UserDetail(); detail != "" {
			return detail
		}
	}
	return f.localize(msgRegistrationFailed)
}

// View is a consistent snapshot of the form for rendering.
type View struct {
	Draft      Draft                      `json:"draft"`
	Submitting bool                       `json:"submitting"`
	Error      string                     `json:"error,omitempty"`
	Result     *schema.RegistrationResult `json:"result,omitempty"`

	Location  schema.GeolocationState `json:"location"`
	Detecting bool                    `json:"detecting"`
	// AccuracyM is the fix accuracy in whole meters, set only when known and non-zero.
	AccuracyM *int64 `json:"accuracy_m,omitempty"`
	// DeviceOffsetM is how far the typed coordinates are from the device fix.
	DeviceOffsetM *int64 `json:"device_offset_m,omitempty"`
}

func (f *Form) View() View {
	var state schema.GeolocationState
	if f.location != nil {
		state = f.location.State()
	}

	f.mu.Lock()
	v := View{
		Draft:      f.draft,
		Submitting: f.submitting,
		Error:      f.err,
		Result:     f.result,
	}
	f.mu.Unlock()

	v.Location = state
	v.Detecting = state.Loading

	if state.Accuracy != nil && *state.Accuracy != 0 {
		accuracy := int64(math.Round(*state.Accuracy))
		v.AccuracyM = &accuracy
	}

	if state.HasCoordinates() {
		lat, latOK := utils.ParseFloat(v.Draft.Latitude)
		lng, lngOK := utils.ParseFloat(v.Draft.Longitude)
		if latOK && lngOK && !math.IsInf(lat, 0) && !math.IsInf(lng, 0) {
			offset := int64(math.Round(utils.DistanceMeters(lat, lng, *state.Latitude, *state.Longitude)))
			v.DeviceOffsetM = &offset
		}
	}

	return v
}

// RenderResult formats a saved registration the way the form confirms it.
func RenderResult(r *schema.RegistrationResult) string {
	if r == nil {
		return ""
	}

	model := "N/A"
	if r.ModelVersion != nil && *r.ModelVersion != "" {
		model = *r.ModelVersion
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Saved borewell ID: #%d\n", r.ID)
	fmt.Fprintf(&b, "Location: %s, %s\n", utils.FormatCoordinate(r.Latitude), utils.FormatCoordinate(r.Longitude))
	fmt.Fprintf(&b, "Model snapshot at registration: %s\n", model)
	return b.String()
}
