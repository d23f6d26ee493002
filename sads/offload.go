package sads

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"sade/theme"
)

// Protocol operations, named after the original resolution unit exports.
const (
	OpResolveColor         = "resolveColor"
	OpResolveValue         = "resolveValue"
	OpParseResponsiveRules = "parseResponsiveRules"
)

// DefaultStartupTimeout bounds how long a styling pass waits for the
// offload unit to report ready.
const DefaultStartupTimeout = 5 * time.Second

// maxOffloadLine caps a single protocol line. Theme tables and responsive
// payloads stay far below this.
const maxOffloadLine = 1 << 20

// errorSentinel prefixes in-band failure results, as the original unit
// reported them.
const errorSentinel = "Error"

// OffloadConfig describes the external resolution helper process.
type OffloadConfig struct {
	Enable         bool
	Command        string
	Args           []string
	StartupTimeout time.Duration
}

// OffloadRequest is one protocol line sent to the unit. Category tables
// travel as their JSON serialization, mirroring the original export
// signatures.
type OffloadRequest struct {
	Op       string            `json:"op"`
	Token    string            `json:"token,omitempty"`
	Category string            `json:"category,omitempty"`
	Name     string            `json:"name,omitempty"`
	Rules    string            `json:"rules,omitempty"`
	Theme    map[string]string `json:"theme,omitempty"`
	Dark     bool              `json:"dark"`
}

// OffloadResponse is one protocol line read back from the unit. Failures
// are in-band: a result starting with the error sentinel.
type OffloadResponse struct {
	Result string `json:"result"`
}

type offloadHandshake struct {
	Ready bool `json:"ready"`
}

// Offloader is the client seam to an external resolution unit.
type Offloader interface {
	Await(ctx context.Context) error
	Call(ctx context.Context, req *OffloadRequest) (string, error)
}

var errOffloadClosed = errors.New("offload unit closed")

// Unit runs the resolution helper as a child process and speaks the line
// protocol over its standard streams. The process starts on first use and
// a unit that failed once stays failed, callers fall back to native
// resolution.
type Unit struct {
	cfg OffloadConfig
	log *zap.Logger

	startOnce sync.Once
	ready     chan struct{}

	mu  sync.Mutex
	cmd *exec.Cmd
	in  io.WriteCloser
	out *bufio.Reader
	err error
}

// NewUnit prepares a unit from cfg without starting the process.
func NewUnit(cfg OffloadConfig, log *zap.Logger) *Unit {
	if log == nil {
		log = zap.NewNop()
	}
	return &Unit{
		cfg:   cfg,
		log:   log,
		ready: make(chan struct{}),
	}
}

// Await starts the unit on first call and blocks until its readiness
// handshake arrives, bounded by ctx and the configured startup timeout.
// Once the unit is up later calls return immediately.
func (u *Unit) Await(ctx context.Context) error {
	u.startOnce.Do(func() { go u.start() })

	select {
	case <-u.ready:
		return u.lastErr()
	default:
	}

	timeout := u.cfg.StartupTimeout
	if timeout <= 0 {
		timeout = DefaultStartupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-u.ready:
		return u.lastErr()
	case <-ctx.Done():
		err := fmt.Errorf("offload unit not ready: %w", ctx.Err())
		u.fail(err)
		return err
	}
}

func (u *Unit) lastErr() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

// Call sends one request and reads the matching response line. Exchanges
// are serialized, a transport failure poisons the unit.
func (u *Unit) Call(ctx context.Context, req *OffloadRequest) (string, error) {
	if err := u.Await(ctx); err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return "", u.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding offload request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := u.in.Write(payload); err != nil {
		u.err = fmt.Errorf("offload unit write: %w", err)
		return "", u.err
	}

	line, err := u.out.ReadString('\n')
	if err != nil {
		u.err = fmt.Errorf("offload unit read: %w", err)
		return "", u.err
	}
	var resp OffloadResponse
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		u.err = fmt.Errorf("decoding offload response: %w", err)
		return "", u.err
	}
	return resp.Result, nil
}

// Close shuts the unit down by closing its input stream and reaping the
// process. Safe to call on a unit that never started.
func (u *Unit) Close() error {
	u.mu.Lock()
	in, cmd := u.in, u.cmd
	u.in, u.cmd = nil, nil
	if u.err == nil {
		u.err = errOffloadClosed
	}
	u.mu.Unlock()

	var errs error
	if in != nil {
		errs = multierr.Append(errs, in.Close())
	}
	if cmd != nil {
		errs = multierr.Append(errs, cmd.Wait())
	}
	return errs
}

func (u *Unit) start() {
	defer close(u.ready)

	cmd := exec.Command(u.cfg.Command, u.cfg.Args...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		u.setErr(fmt.Errorf("offload unit stdin: %w", err))
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		u.setErr(fmt.Errorf("offload unit stdout: %w", err))
		return
	}
	if err := cmd.Start(); err != nil {
		u.setErr(fmt.Errorf("starting offload unit: %w", err))
		return
	}

	out := bufio.NewReaderSize(stdout, 64*1024)
	u.mu.Lock()
	u.cmd = cmd
	u.in = stdin
	u.out = out
	u.mu.Unlock()

	line, err := out.ReadString('\n')
	if err != nil {
		u.fail(fmt.Errorf("offload unit handshake: %w", err))
		return
	}
	var hs offloadHandshake
	if err := json.Unmarshal([]byte(line), &hs); err != nil || !hs.Ready {
		u.fail(fmt.Errorf("offload unit handshake: unexpected line %q", strings.TrimSpace(line)))
		return
	}
	if u.lastErr() != nil {
		// an Await gave up while the handshake was still in flight
		u.fail(nil)
		return
	}
	u.log.Debug("Offload unit ready", zap.String("command", u.cfg.Command))
}

func (u *Unit) setErr(err error) {
	u.mu.Lock()
	if u.err == nil && err != nil {
		u.err = err
	}
	u.mu.Unlock()
}

// fail poisons the unit and reaps the process if one is running.
func (u *Unit) fail(err error) {
	u.mu.Lock()
	if u.err == nil && err != nil {
		u.err = err
	}
	cmd, in := u.cmd, u.in
	u.cmd, u.in = nil, nil
	u.mu.Unlock()

	if in != nil {
		_ = in.Close()
	}
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
}

// OffloadColorResolver serves color resolution through an offload unit,
// dropping to the native resolver whenever the unit cannot answer. The
// first failure is logged once, later ones stay quiet.
type OffloadColorResolver struct {
	unit   Offloader
	native NativeResolver
	log    *zap.Logger
	warn   sync.Once
}

// NewOffloadColorResolver wraps u.
func NewOffloadColorResolver(u Offloader, log *zap.Logger) *OffloadColorResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &OffloadColorResolver{unit: u, log: log}
}

func (r *OffloadColorResolver) ResolveColor(ctx context.Context, v Value, colors map[string]string, dark bool) string {
	if v.IsLiteral() {
		return v.Text()
	}
	table, err := json.Marshal(colors)
	if err != nil {
		return r.fallback(ctx, v, colors, dark, err)
	}
	result, err := r.unit.Call(ctx, &OffloadRequest{
		Op:       OpResolveColor,
		Token:    v.Text(),
		Category: string(table),
		Dark:     dark,
	})
	if err != nil {
		return r.fallback(ctx, v, colors, dark, err)
	}
	if strings.HasPrefix(result, errorSentinel) {
		return r.fallback(ctx, v, colors, dark, errors.New(result))
	}
	return result
}

func (r *OffloadColorResolver) fallback(ctx context.Context, v Value, colors map[string]string, dark bool, err error) string {
	r.warn.Do(func() {
		r.log.Warn("Offloaded color resolution failed, using native resolver", zap.Error(err))
	})
	return r.native.ResolveColor(ctx, v, colors, dark)
}

// OffloadResponsiveResolver serves responsive parsing through an offload
// unit with the native parser as fallback.
type OffloadResponsiveResolver struct {
	unit   Offloader
	native NativeResolver
	log    *zap.Logger
	warn   sync.Once
}

// NewOffloadResponsiveResolver wraps u.
func NewOffloadResponsiveResolver(u Offloader, log *zap.Logger) *OffloadResponsiveResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &OffloadResponsiveResolver{unit: u, log: log}
}

func (r *OffloadResponsiveResolver) ResolveResponsive(ctx context.Context, rulesJSON []byte, th *theme.Theme, dark bool) ([]MediaGroup, error) {
	cats, err := th.MarshalCategories()
	if err != nil {
		return r.fallback(ctx, rulesJSON, th, dark, err)
	}
	parts := make(map[string]string, len(cats))
	for name, data := range cats {
		parts[name] = string(data)
	}
	result, err := r.unit.Call(ctx, &OffloadRequest{
		Op:    OpParseResponsiveRules,
		Rules: string(rulesJSON),
		Theme: parts,
		Dark:  dark,
	})
	if err != nil {
		return r.fallback(ctx, rulesJSON, th, dark, err)
	}
	if strings.HasPrefix(result, errorSentinel) {
		return r.fallback(ctx, rulesJSON, th, dark, errors.New(result))
	}
	var groups []MediaGroup
	if err := json.Unmarshal([]byte(result), &groups); err != nil {
		return r.fallback(ctx, rulesJSON, th, dark, fmt.Errorf("decoding offload media groups: %w", err))
	}
	return groups, nil
}

func (r *OffloadResponsiveResolver) fallback(ctx context.Context, rulesJSON []byte, th *theme.Theme, dark bool, err error) ([]MediaGroup, error) {
	r.warn.Do(func() {
		r.log.Warn("Offloaded responsive parsing failed, using native parser", zap.Error(err))
	})
	return r.native.ResolveResponsive(ctx, rulesJSON, th, dark)
}

// ServeOffload implements the unit side of the protocol: it emits the
// readiness handshake, then answers one request per input line until EOF.
// The sade-offload helper serves it over its standard streams, tests run
// it in process.
func ServeOffload(r io.Reader, w io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(offloadHandshake{Ready: true}); err != nil {
		return fmt.Errorf("writing handshake: %w", err)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxOffloadLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var result string
		var req OffloadRequest
		if err := json.Unmarshal(line, &req); err != nil {
			result = fmt.Sprintf("Error: bad request: %v", err)
		} else {
			result = serveRequest(&req)
			log.Debug("Served offload request", zap.String("op", req.Op))
		}
		if err := enc.Encode(OffloadResponse{Result: result}); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

func serveRequest(req *OffloadRequest) string {
	switch req.Op {
	case OpResolveColor:
		return serveResolveColor(req)
	case OpResolveValue:
		return serveResolveValue(req)
	case OpParseResponsiveRules:
		return serveParseResponsive(req)
	default:
		return fmt.Sprintf("Error: unknown op %q", req.Op)
	}
}

func serveResolveColor(req *OffloadRequest) string {
	if req.Token == "" {
		return ""
	}
	var colors map[string]string
	if err := json.Unmarshal([]byte(req.Category), &colors); err != nil {
		return fmt.Sprintf("Error deserializing colorsThemeJson: %v", err)
	}
	return NativeResolver{}.ResolveColor(context.Background(), ParseValue(req.Token), colors, req.Dark)
}

func serveResolveValue(req *OffloadRequest) string {
	if req.Token == "" {
		return ""
	}
	var table map[string]string
	if err := json.Unmarshal([]byte(req.Category), &table); err != nil {
		return fmt.Sprintf("Error deserializing themeCategoryJson for category '%s': %v", req.Name, err)
	}
	v := ParseValue(req.Token)
	if req.Name == theme.CategoryColors {
		return NativeResolver{}.ResolveColor(context.Background(), v, table, req.Dark)
	}
	return resolveCategory(v, table)
}

func serveParseResponsive(req *OffloadRequest) string {
	cats := make(map[string]json.RawMessage, len(req.Theme))
	for name, data := range req.Theme {
		cats[name] = json.RawMessage(data)
	}
	th, err := theme.FromCategories(cats)
	if err != nil {
		return fmt.Sprintf("Error deserializing theme categories: %v", err)
	}
	groups, err := NativeResolver{}.ResolveResponsive(context.Background(), []byte(req.Rules), th, req.Dark)
	if err != nil {
		return fmt.Sprintf("Error parsing rulesJSON: %v. Input: %s", err, req.Rules)
	}
	out, err := json.Marshal(groups)
	if err != nil {
		return fmt.Sprintf("Error marshalling media groups: %v", err)
	}
	return string(out)
}
