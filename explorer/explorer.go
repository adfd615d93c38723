// Package explorer composes the graph store, layout engine, visibility
// resolver, gesture controller and camera into one exploration session.
//
// An Explorer models the single UI thread: it is not safe for concurrent use.
// Loop owns an Explorer on one goroutine and serializes every input onto it.
package explorer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/camera"
	"github.com/teranos/mangagraph/dataset"
	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/graph"
	grapherr "github.com/teranos/mangagraph/graph/error"
	"github.com/teranos/mangagraph/interaction"
	"github.com/teranos/mangagraph/layout"
	"github.com/teranos/mangagraph/logger"
	"github.com/teranos/mangagraph/visibility"
)

// FrameUpdate is what one animation frame produced
type FrameUpdate struct {
	Positions []graph.Position    `json:"positions"`
	Camera    camera.State        `json:"camera"`
	Tooltip   interaction.Tooltip `json:"tooltip"`
	Cursor    string              `json:"cursor"`
	Animating bool                `json:"animating"`
}

// Explorer is one exploration session over a loaded graph
type Explorer struct {
	cfg    *am.Config
	logger *zap.SugaredLogger

	store    *graph.Store
	engine   *layout.Engine
	resolver *visibility.Resolver
	ctrl     *interaction.Controller
	cam      *camera.Camera

	filter    visibility.FilterState
	selection *visibility.Selection
	result    *visibility.Result

	stats   *graph.LoadStats
	loadErr *grapherr.GraphError

	// generation increments on every resolve so observers can detect a new view
	generation uint64
}

// New creates an unloaded explorer configured from cfg
func New(cfg *am.Config, log *zap.SugaredLogger) *Explorer {
	if cfg == nil {
		cfg = am.Default()
	}
	if log == nil {
		log = logger.ComponentLogger("explorer")
	}
	x := &Explorer{
		cfg:       cfg,
		logger:    log,
		store:     graph.NewStore(),
		engine:    layout.New(layoutSettings(cfg), 0),
		resolver:  &visibility.Resolver{AwardTag: cfg.Graph.AwardTag},
		cam:       camera.New(cameraOptions(cfg)),
		filter:    FilterFromConfig(cfg.Filter),
		selection: visibility.NewSelection(),
	}
	x.ctrl = interaction.New(x.store, x, x, x.cam, cfg.Interaction.DragThresholdPx)
	x.resolve()
	return x
}

// Open creates an explorer and loads the configured dataset.
// A failed fetch or load leaves an empty graph with LoadError set.
func Open(ctx context.Context, cfg *am.Config, log *zap.SugaredLogger) *Explorer {
	x := New(cfg, log)

	if timeout := x.cfg.DatasetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	doc, err := dataset.Load(ctx, x.cfg.Dataset.Source, x.logger)
	if err != nil {
		x.fail(grapherr.From(grapherr.CategoryDataset, err).WithContext("source", x.cfg.Dataset.Source))
		return x
	}
	_ = x.Load(doc.Nodes, doc.Edges)
	return x
}

// Load builds the graph, runs the settle pass and resolves the initial view.
// Errors are also recorded in LoadError.
func (x *Explorer) Load(nodes []graph.DatasetNode, edges []graph.DatasetEdge) error {
	if len(nodes) == 0 {
		err := grapherr.New(grapherr.CategoryLoad, errors.Wrap(errors.ErrNoData, "dataset has no nodes"), "").
			WithSubcategory(grapherr.SubcategoryLoadEmpty)
		x.fail(err)
		return err
	}

	stats, err := x.store.Load(nodes, edges, loadOptions(x.cfg))
	if err != nil {
		sub := ""
		if errors.Is(err, errors.ErrAlreadyLoaded) {
			sub = grapherr.SubcategoryLoadAlreadyLoaded
		}
		ge := grapherr.From(grapherr.CategoryLoad, err).WithSubcategory(sub)
		x.logger.Warnw("Graph load rejected", ge.ToLogFields()...)
		return ge
	}
	x.stats = stats
	x.loadErr = nil

	if x.store.Len() == 0 {
		ge := grapherr.Newf(grapherr.CategoryLoad, "", "no node survived load filtering (%d input nodes)", stats.InputNodes).
			WithSubcategory(grapherr.SubcategoryLoadNoSurvivors).
			WithContext("below_score", stats.BelowScore).
			WithContext("isolated", stats.Isolated)
		x.fail(ge)
		return ge
	}

	start := time.Now()
	x.engine.SetSettings(layoutSettings(x.cfg), x.store.Len())
	iterations := x.engine.Settle(x.store)

	x.logger.Infow("Graph loaded",
		logger.FieldNodes, stats.Nodes,
		logger.FieldEdges, stats.Edges,
		"genres", stats.Genres,
		"below_score", stats.BelowScore,
		"dangling", stats.Dangling,
		"duplicates", stats.Duplicates,
		"isolated", stats.Isolated,
		"repulsion", x.engine.Repulsion().Name(),
		logger.FieldIterations, iterations,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	if stats.Dangling+stats.SelfLoops+stats.DuplicateIDs > 0 {
		x.logger.Debugw("Skipped malformed dataset records",
			"dangling", stats.Dangling,
			"self_loops", stats.SelfLoops,
			"duplicate_ids", stats.DuplicateIDs,
		)
	}

	x.resolve()
	x.RequestFitView()
	return nil
}

func (x *Explorer) fail(err *grapherr.GraphError) {
	x.loadErr = err
	x.logger.Errorw("Dataset load failed, continuing with an empty graph", err.ToLogFields()...)
	x.resolve()
}

// LoadError returns the load failure, or nil when the graph loaded
func (x *Explorer) LoadError() *grapherr.GraphError { return x.loadErr }

// Stats returns load statistics, nil before a successful load
func (x *Explorer) Stats() *graph.LoadStats { return x.stats }

// Store exposes the graph store for read-only consumers
func (x *Explorer) Store() *graph.Store { return x.store }

// Config returns the active configuration
func (x *Explorer) Config() *am.Config { return x.cfg }

// Generation increments every time the visibility result is recomputed
func (x *Explorer) Generation() uint64 { return x.generation }

// Result returns the current visibility result
func (x *Explorer) Result() *visibility.Result { return x.result }

// Filter returns the current filter state
func (x *Explorer) Filter() visibility.FilterState { return x.filter }

// Selection returns the selected ids in selection order
func (x *Explorer) Selection() []string { return x.selection.IDs() }

// Camera returns the current camera state
func (x *Explorer) Camera() camera.State { return x.cam.State() }

// Interaction exposes the gesture controller
func (x *Explorer) Interaction() *interaction.Controller { return x.ctrl }

// resolve recomputes the visibility result synchronously with the state change
func (x *Explorer) resolve() {
	x.result = x.resolver.Resolve(x.store, x.filter, x.selection)
	x.generation++
	x.logger.Debugw("Resolved visibility",
		logger.FieldActive, x.result.ActiveCount(),
		logger.FieldSelected, x.result.Selection(),
		"visible_edges", x.result.VisibleEdgeCount(),
	)
}

// Toggle adds or removes a node from the selection; unknown ids are ignored
func (x *Explorer) Toggle(id string) {
	if !x.store.Has(id) {
		return
	}
	x.selection.Toggle(id)
	x.resolve()
}

// ClearSelection empties the selection
func (x *Explorer) ClearSelection() {
	if x.selection.Len() == 0 {
		return
	}
	x.selection.Clear()
	x.resolve()
}

// SetFilter replaces the whole filter state
func (x *Explorer) SetFilter(f visibility.FilterState) {
	x.filter = f.WithGenres(f.SelectedGenres...)
	x.resolve()
}

// SetMinStrength sets the edge strength threshold
func (x *Explorer) SetMinStrength(v float64) {
	x.filter.MinStrength = v
	x.resolve()
}

// SetMinScore sets the interactive score threshold
func (x *Explorer) SetMinScore(v float64) {
	x.filter.MinScore = v
	x.resolve()
}

// SetGenres replaces the selected genre set; none means no restriction
func (x *Explorer) SetGenres(genres ...string) {
	x.filter = x.filter.WithGenres(genres...)
	x.resolve()
}

// SetAwardOnly switches the award-winning-only filter
func (x *Explorer) SetAwardOnly(on bool) {
	x.filter.AwardWinningOnly = on
	x.resolve()
}

// Remove deletes a node and its edges, dropping it from the selection
func (x *Explorer) Remove(id string) bool {
	if !x.store.Remove(id) {
		return false
	}
	x.selection.Remove(id)
	x.resolve()
	return true
}

// FocusNode animates the camera to a node; implements interaction.Focuser
func (x *Explorer) FocusNode(id string) {
	x.RequestFocus(id)
}

// RequestFocus animates the camera to a node's current position
func (x *Explorer) RequestFocus(id string) bool {
	n, ok := x.store.Node(id)
	if !ok {
		return false
	}
	x.cam.Focus(n.X, n.Y)
	return true
}

// RequestFitView animates the camera to frame every active node
func (x *Explorer) RequestFitView() bool {
	active := x.result.Active()
	points := make([]camera.Point, 0, len(active))
	for _, id := range active {
		if n, ok := x.store.Node(id); ok {
			points = append(points, camera.Point{X: n.X, Y: n.Y})
		}
	}
	return x.cam.FitTo(points)
}

// Zoom scales the view around a viewport anchor
func (x *Explorer) Zoom(vx, vy, factor float64) {
	x.cam.ZoomAt(vx, vy, factor)
}

// Resize records the shell's viewport size in pixels
func (x *Explorer) Resize(width, height float64) {
	x.cam.Resize(width, height)
}

// PointerDown starts a gesture. An empty nodeID is resolved by hit testing.
func (x *Explorer) PointerDown(nodeID string, vx, vy float64, button interaction.Button) bool {
	if nodeID == "" {
		nodeID, _ = x.NodeAt(vx, vy)
	}
	return x.ctrl.PointerDown(nodeID, vx, vy, button)
}

// NodeAt returns the topmost visible node under a viewport point
func (x *Explorer) NodeAt(vx, vy float64) (string, bool) {
	gx, gy := x.cam.ViewportToGraph(vx, vy)
	ratio := x.cam.State().Ratio

	best, bestZ := "", -1
	for _, n := range x.store.Nodes() {
		style := x.result.NodeStyle(n.ID)
		if style.Hidden {
			continue
		}
		// Size is in pixels; the camera ratio converts it to graph units
		r := style.Size * ratio
		dx, dy := n.X-gx, n.Y-gy
		if dx*dx+dy*dy > r*r {
			continue
		}
		if style.Z >= bestZ {
			best, bestZ = n.ID, style.Z
		}
	}
	return best, best != ""
}

// Frame advances the continuous layout pass and the camera animation
func (x *Explorer) Frame(now time.Time) FrameUpdate {
	if x.store.Len() > 0 {
		x.engine.Frame(x.store)
	}
	animating := x.cam.Step(now)
	return FrameUpdate{
		Positions: x.store.Positions(),
		Camera:    x.cam.State(),
		Tooltip:   x.ctrl.Tooltip(),
		Cursor:    x.ctrl.Cursor(),
		Animating: animating,
	}
}

// View returns the styled graph document for the shell.
// After a load failure it is an empty graph carrying the error in Meta.Config.
func (x *Explorer) View() *graph.Graph {
	if x.loadErr != nil {
		return graph.Empty(x.loadErr.ToGraphMeta())
	}
	g := x.store.View()
	x.result.Apply(g)
	return g
}

// ApplyConfig hot-applies a reloaded configuration: layout tuning, camera,
// drag threshold and award tag. The live filter is replaced only when the
// file's filter section itself changed, so unrelated edits keep the user's
// thresholds. Load-time settings only take effect on the next start.
func (x *Explorer) ApplyConfig(cfg *am.Config) {
	if cfg == nil {
		return
	}
	filterChanged := !sameFilterConfig(x.cfg.Filter, cfg.Filter)
	x.cfg = cfg
	x.engine.SetSettings(layoutSettings(cfg), x.store.Len())
	x.cam.SetOptions(cameraOptions(cfg))
	x.ctrl.SetThreshold(cfg.Interaction.DragThresholdPx)
	x.resolver.AwardTag = cfg.Graph.AwardTag
	if filterChanged {
		x.filter = FilterFromConfig(cfg.Filter)
	}
	x.resolve()
	x.logger.Infow("Applied reloaded configuration",
		"repulsion", x.engine.Repulsion().Name(),
		"filter_changed", filterChanged,
		"min_score", x.filter.MinScore,
		"min_strength", x.filter.MinStrength,
	)
}
