// Package trip implements the planning session workflow: a controller that
// owns all mutable state for one session and coordinates the plan, guide
// generation and guide download calls against the trip service, exposing a
// read-only snapshot for rendering.
package trip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// GuideFilename is the fixed local name a downloaded guide is saved under.
const GuideFilename = "Travel_Guide.pdf"

// Validation errors surfaced before any remote call is made.
var (
	ErrMissingEndpoints = errors.New("start and end points are required")
	ErrNoTripData       = errors.New("no trip data available, plan a trip first")
	ErrNoGuide          = errors.New("no guide has been generated yet")
)

// ErrSuperseded reports that a call settled after a newer request for the same
// stage had already been issued; its result was discarded.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Phase is the session's progress state. Failures do not get phases of their
// own: a failed call drops back to the last stable phase and leaves an error
// note, so retrying is always a plain re-invocation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlanning
	PhasePlanned
	PhaseGenerating
	PhaseGuideReady
)

// Busy reports whether a remote call is in flight for this phase.
func (p Phase) Busy() bool { return p == PhasePlanning || p == PhaseGenerating }

// note is the single user-facing message slot. Holding the error flag next to
// the text makes an error and a success message at the same time
// unrepresentable.
type note struct {
	text  string
	isErr bool
}

// Snapshot is a point-in-time copy of the session state for rendering. The
// Plan pointer is shared but the Plan itself is never mutated after receipt.
type Snapshot struct {
	Input     Input
	Phase     Phase
	Plan      *Plan
	MapRef    string
	GuideFile string
	note      note
}

// Planning reports whether a plan request is in flight.
func (s Snapshot) Planning() bool { return s.Phase == PhasePlanning }

// Generating reports whether a guide request is in flight.
func (s Snapshot) Generating() bool { return s.Phase == PhaseGenerating }

// Err returns the current error message, or "" when none.
func (s Snapshot) Err() string {
	if s.note.isErr {
		return s.note.text
	}
	return ""
}

// Success returns the current success message, or "" when none.
func (s Snapshot) Success() string {
	if !s.note.isErr {
		return s.note.text
	}
	return ""
}

// Controller owns one planning session. Methods are safe for concurrent use:
// state is mutex-guarded and remote calls happen outside the lock, with a
// per-stage request token so only the newest in-flight call may apply its
// result.
type Controller struct {
	client *Client

	mu         sync.Mutex
	input      Input
	phase      Phase
	note       note
	plan       *Plan
	mapRef     string
	guideFile  string
	planToken  uuid.UUID
	guideToken uuid.UUID
}

// NewController starts a session with empty endpoints and the given default
// transport mode.
func NewController(client *Client, defaultMode Mode) *Controller {
	if defaultMode == "" {
		defaultMode = ModeDrive
	}
	return &Controller{
		client: client,
		input:  Input{Mode: defaultMode},
	}
}

// Client returns the underlying trip service client.
func (c *Controller) Client() *Client { return c.client }

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Input:     c.input,
		Phase:     c.phase,
		Plan:      c.plan,
		MapRef:    c.mapRef,
		GuideFile: c.guideFile,
		note:      c.note,
	}
}

// SetStart overwrites the start point. Any pending message is stale the
// moment the user resumes editing, so it is cleared unconditionally.
func (c *Controller) SetStart(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Start = v
	c.note = note{}
}

// SetEnd overwrites the end point and clears any pending message.
func (c *Controller) SetEnd(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.End = v
	c.note = note{}
}

// SetMode overwrites the transport mode and clears any pending message.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input.Mode = m
	c.note = note{}
}

// PlanTrip validates the session input and issues one plan request. On
// acceptance the previous plan, map reference and guide are invalidated
// before the request goes out, so a concurrent render never shows stale
// artifacts next to a new in-flight request. Exactly one of the error or
// success message is set once the call settles, and the session is never
// left in PhasePlanning.
func (c *Controller) PlanTrip(ctx context.Context) error {
	c.mu.Lock()
	in := c.input
	in.Start = strings.TrimSpace(in.Start)
	in.End = strings.TrimSpace(in.End)
	if in.Start == "" || in.End == "" {
		c.note = note{text: ErrMissingEndpoints.Error(), isErr: true}
		c.mu.Unlock()
		return ErrMissingEndpoints
	}
	c.plan = nil
	c.mapRef = ""
	c.guideFile = ""
	c.phase = PhasePlanning
	c.note = note{}
	token := uuid.New()
	c.planToken = token
	// orphan any guide call still in flight; its trip no longer exists
	c.guideToken = uuid.Nil
	c.mu.Unlock()

	plan, err := c.client.PlanTrip(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.planToken != token {
		return ErrSuperseded
	}
	if err != nil {
		c.phase = PhaseIdle
		c.note = note{text: failureMessage(err, "Failed to plan trip. Please try again."), isErr: true}
		return err
	}
	c.plan = plan
	c.mapRef = c.client.MapURL(plan.MapFile)
	msg := plan.Message
	if msg == "" {
		msg = "Trip planned successfully"
	}
	c.phase = PhasePlanned
	c.note = note{text: msg}
	return nil
}

// GenerateGuide issues one guide-generation request for the current plan's
// data file. Without a plan it fails immediately and performs no remote call.
func (c *Controller) GenerateGuide(ctx context.Context) error {
	c.mu.Lock()
	if c.plan == nil || c.plan.DataFile == "" {
		c.note = note{text: ErrNoTripData.Error(), isErr: true}
		c.mu.Unlock()
		return ErrNoTripData
	}
	dataFile := c.plan.DataFile
	c.guideFile = ""
	c.phase = PhaseGenerating
	c.note = note{}
	token := uuid.New()
	c.guideToken = token
	c.mu.Unlock()

	pdfFile, err := c.client.GenerateGuide(ctx, dataFile)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guideToken != token {
		return ErrSuperseded
	}
	if err != nil {
		c.phase = PhasePlanned
		c.note = note{text: failureMessage(err, "Failed to generate guide. Please try again."), isErr: true}
		return err
	}
	c.guideFile = pdfFile
	c.phase = PhaseGuideReady
	c.note = note{text: "Travel guide generated successfully"}
	return nil
}

// DownloadGuide fetches the generated guide and saves it under dir with the
// fixed local filename, returning the saved path. Requesting a download with
// no guide present is an explicit error, not a no-op. A successful download
// leaves the session state untouched.
func (c *Controller) DownloadGuide(ctx context.Context, dir string) (string, error) {
	c.mu.Lock()
	guideFile := c.guideFile
	if guideFile == "" {
		c.note = note{text: ErrNoGuide.Error(), isErr: true}
		c.mu.Unlock()
		return "", ErrNoGuide
	}
	c.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, GuideFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := c.client.FetchGuide(ctx, guideFile, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// failureMessage prefers the service-provided detail, falling back to a fixed
// per-operation message for transport failures and malformed replies.
func failureMessage(err error, fallback string) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return fallback
}
