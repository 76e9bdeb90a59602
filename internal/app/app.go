// Package app is the terminal front end: one bubbletea model hosting the
// B&W conversion and cutout sessions side by side.
package app

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/config"
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/keymap"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/preview"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
	"github.com/llehouerou/ipv/internal/ui/busy"
	"github.com/llehouerou/ipv/internal/ui/canvas"
	"github.com/llehouerou/ipv/internal/ui/helpbindings"
	"github.com/llehouerou/ipv/internal/ui/methodpanel"
	"github.com/llehouerou/ipv/internal/ui/notice"
	"github.com/llehouerou/ipv/internal/ui/termimg"
	"github.com/llehouerou/ipv/internal/ui/textinput"
)

// Workflow names.
const (
	WorkflowBW     = "bw"
	WorkflowCutout = "cutout"
)

// Service is the processing service as the app sees it.
type Service interface {
	session.ConvertService
	session.CutoutService
	BreakerState() string
}

// workflowSession is what both sessions share.
type workflowSession interface {
	Load(src *imagefile.Source) error
	BeginLoad()
	LoadFailed(err error)
	Process() (*session.Call, error)
	Save() (*session.Call, error)
	Settle(call *session.Call, out session.Outcome) session.Settlement
	View() session.View
	Source() *imagefile.Source
	Geometry() geometry.Geometry
	Result() *session.Result
	Status() string
	Workflow() string
}

// Options wires the model.
type Options struct {
	Config   *config.Config
	Service  Service
	Store    state.Interface
	Surface  *termimg.Surface
	Workflow string // overrides the saved workflow when set
	Image    string // opened on start when set
}

// Model is the root application model.
type Model struct {
	cfg      *config.Config
	svc      Service
	store    state.Interface
	previews *preview.Renderer
	surface  *termimg.Surface
	keys     *keymap.Resolver
	timeout  time.Duration

	converter *session.Converter
	cutout    *session.Cutout
	workflow  string

	panel  methodpanel.Model
	busy   busy.Model
	notice notice.Model
	help   helpbindings.Model
	prompt textinput.Model
	popup  popupKind

	canvas        canvas.Canvas
	dragging      bool
	// hint replaces the status line until the next resize or gesture.
	hint string
	sidebarHidden bool
	showOriginal  bool
	showMask      bool
	lastDir       string
	lastSaved     map[string]string
	initialImage  string

	width  int
	height int
}

// New creates the model, restoring saved preferences.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	display := cfg.GetDisplayConfig()
	defaults := cfg.GetDefaultsConfig()

	method, err := params.ParseMethod(defaults.Method)
	if err != nil {
		method = params.DefaultMethod
	}
	resultType, err := params.ParseResultType(defaults.ResultType)
	if err != nil {
		resultType = params.DefaultResultType
	}

	workflow := WorkflowBW
	lastDir := cfg.DefaultFolder
	sidebarHidden := false
	if opts.Store != nil {
		if p, err := opts.Store.GetPrefs(); err == nil && p != nil {
			if p.Workflow == WorkflowCutout {
				workflow = WorkflowCutout
			}
			if v, err := params.ParseMethod(p.Method); err == nil {
				method = v
			}
			if v, err := params.ParseResultType(p.ResultType); err == nil {
				resultType = v
			}
			if _, err := os.Stat(p.LastDir); p.LastDir != "" && err == nil {
				lastDir = p.LastDir
			}
			sidebarHidden = p.SidebarHidden
		}
	}
	if opts.Workflow == WorkflowBW || opts.Workflow == WorkflowCutout {
		workflow = opts.Workflow
	}

	policy := geometry.NeverUpscale
	if display.Upscale {
		policy = geometry.AlwaysScale
	}
	sessOpts := session.Options{
		MaxSize:     display.MaxSize,
		MinRectSize: display.MinRectSize,
		Policy:      policy,
		Method:      method,
		ResultType:  resultType,
	}

	surface := opts.Surface
	if surface == nil {
		surface = termimg.NewSurface(nil)
	}

	panel := methodpanel.New(workflow)
	panel.SetMethod(method)
	panel.SetResultType(resultType)

	return Model{
		cfg:           cfg,
		svc:           opts.Service,
		store:         opts.Store,
		previews:      preview.New(),
		surface:       surface,
		keys:          keymap.Default(),
		timeout:       cfg.RequestTimeout(),
		converter:     session.NewConverter(opts.Service, sessOpts),
		cutout:        session.NewCutout(opts.Service, sessOpts),
		workflow:      workflow,
		panel:         panel,
		busy:          busy.New(),
		notice:        notice.New(),
		help:          helpbindings.New(),
		prompt:        textinput.New(),
		sidebarHidden: sidebarHidden,
		lastDir:       lastDir,
		lastSaved:     make(map[string]string),
		initialImage:  opts.Image,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.initialImage == "" {
		return nil
	}
	m.active().BeginLoad()
	return loadImageCmd(m.workflow, m.initialImage)
}

// Workflow returns the active workflow.
func (m Model) Workflow() string { return m.workflow }

// Converter returns the B&W session.
func (m Model) Converter() *session.Converter { return m.converter }

// Cutout returns the cutout session.
func (m Model) Cutout() *session.Cutout { return m.cutout }

func (m Model) active() workflowSession {
	return m.sessionFor(m.workflow)
}

func (m Model) sessionFor(workflow string) workflowSession {
	if workflow == WorkflowCutout {
		return m.cutout
	}
	return m.converter
}

// Close persists preferences and releases the state store.
func (m Model) Close() error {
	m.persist()
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}

func (m Model) persist() {
	if m.store == nil {
		return
	}
	m.store.SavePrefs(state.Prefs{
		Workflow:      m.workflow,
		Method:        string(m.converter.Method()),
		ResultType:    string(m.cutout.ResultType()),
		LastDir:       m.lastDir,
		SidebarHidden: m.sidebarHidden,
	})
}

func (m Model) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}
