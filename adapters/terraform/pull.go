package terraform

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"multicloud-cost/internal/errors"
	"multicloud-cost/internal/logging"
)

// DefaultPullTimeout bounds each terraform invocation
const DefaultPullTimeout = 5 * time.Minute

// Puller reads the current state of a working directory through the
// terraform binary, so remote backends work without credentials of our own.
type Puller struct {
	binary    string
	dir       string
	workspace string
	timeout   time.Duration
	logger    *zap.Logger
}

// PullOption configures a Puller
type PullOption func(*Puller)

// WithBinary sets the terraform executable
func WithBinary(path string) PullOption {
	return func(p *Puller) {
		if path != "" {
			p.binary = path
		}
	}
}

// WithWorkspace selects a workspace before pulling
func WithWorkspace(name string) PullOption {
	return func(p *Puller) { p.workspace = name }
}

// WithTimeout bounds each terraform invocation
func WithTimeout(d time.Duration) PullOption {
	return func(p *Puller) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPullLogger sets the logger
func WithPullLogger(l *zap.Logger) PullOption {
	return func(p *Puller) { p.logger = l }
}

// NewPuller creates a puller for dir, which must be an existing directory
func NewPuller(dir string, opts ...PullOption) (*Puller, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Config("resolve working directory", err).WithContext("dir", dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.Inputf("not a Terraform working directory: %s", dir)
	}

	p := &Puller{
		binary:  "terraform",
		dir:     abs,
		timeout: DefaultPullTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrGlobal(p.logger, "terraform")
	return p, nil
}

// Pull returns the state document of the working directory. The document is
// checked with ParseState before it is returned.
func (p *Puller) Pull(ctx context.Context) ([]byte, error) {
	if p.workspace != "" {
		if _, err := p.terraform(ctx, "workspace", "select", p.workspace); err != nil {
			return nil, err
		}
	}
	out, err := p.terraform(ctx, "state", "pull")
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, errors.Input("working directory has no state").WithContext("dir", p.dir)
	}
	state, err := ParseState(out)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("pulled terraform state",
		zap.String("dir", p.dir),
		zap.String("workspace", p.workspace),
		zap.Int("serial", state.Serial),
		zap.Int("resources", len(state.Resources)),
	)
	return out, nil
}

func (p *Puller) terraform(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Dir = p.dir
	cmd.Env = append(os.Environ(), "TF_IN_AUTOMATION=1", "TF_INPUT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Parsing(
			fmt.Sprintf("terraform %s failed: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String())), err).
			WithContext("dir", p.dir)
	}
	return stdout.Bytes(), nil
}
