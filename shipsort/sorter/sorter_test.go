package sorter

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smell-of-curry/shipsort/shipsort/layers"
	"github.com/smell-of-curry/shipsort/shipsort/placement"
	"github.com/smell-of-curry/shipsort/shipsort/position"
	"github.com/smell-of-curry/shipsort/shipsort/resolve"
	"github.com/smell-of-curry/shipsort/shipsort/scene"
)

// item ...
type item struct {
	key       string
	category  layers.Category
	onVehicle bool
	// pass tells apart items of the same key handed to different passes.
	pass int
}

// Key ...
func (i item) Key() string { return i.key }

// VerticalOffset ...
func (i item) VerticalOffset() float64 { return 0 }

// Category ...
func (i item) Category() layers.Category { return i.category }

// OnVehicle ...
func (i item) OnVehicle() bool { return i.onVehicle }

// resolver resolves keys from a fixed table, falling back to "0,1,0".
type resolver map[string]string

// Resolve ...
func (r resolver) Resolve(key string, c layers.Category) (position.Spec, error) {
	if key == "broken" {
		return position.Spec{}, &resolve.IntegrityError{Category: c, Err: position.ErrInvalidFormat}
	}
	text, ok := r[key]
	if !ok {
		text = "0,1,0"
	}
	return position.Parse(text, nil)
}

// placed is a single recorded placement.
type placed struct {
	item     item
	local    mgl64.Vec3
	rotation int
}

// world has a floor at height zero and records every placement.
type world struct {
	mu     sync.Mutex
	placed []placed
}

// RaycastDown ...
func (w *world) RaycastDown(origin mgl64.Vec3, _ float64, _ placement.LayerMask) (mgl64.Vec3, bool) {
	return mgl64.Vec3{origin[0], 0, origin[2]}, true
}

// Place ...
func (w *world) Place(i placement.Item, local mgl64.Vec3, rotation int, _ position.Anchor) error {
	w.placed = append(w.placed, placed{item: i.(item), local: local, rotation: rotation})
	return nil
}

// Placed returns the keys of every placed item, in order.
func (w *world) Placed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.placed))
	for _, p := range w.placed {
		keys = append(keys, p.item.key)
	}
	return keys
}

// Pass returns the placements of the items of pass, in order.
func (w *world) Pass(pass int) []placed {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []placed
	for _, p := range w.placed {
		if p.item.pass == pass {
			out = append(out, p)
		}
	}
	return out
}

// executor runs every function on its own goroutine, one at a time.
type executor struct {
	w *world
}

// Exec ...
func (e executor) Exec(f func(placement.World)) <-chan struct{} {
	c := make(chan struct{})
	go func() {
		e.w.mu.Lock()
		f(e.w)
		e.w.mu.Unlock()
		close(c)
	}()
	return c
}

var discard = slog.New(slog.DiscardHandler)

func newSorter(t *testing.T, r Resolver, conf Config) *Sorter {
	t.Helper()
	sc, err := scene.New(scene.Config{Objects: []scene.ObjectConfig{{Path: position.ShipPath}}})
	if err != nil {
		t.Fatal(err)
	}
	return New(discard, r, placement.NewEngine(discard, sc), conf)
}

func TestImmediateSortPlacesScrapFirst(t *testing.T) {
	s := newSorter(t, resolver{}, Config{})
	w := &world{}
	items := []Item{
		item{key: "shovel", category: layers.Tool},
		item{key: "mug", category: layers.OneHanded},
		item{key: "anvil", category: layers.TwoHanded},
	}

	var report Report
	job, err := s.Sort(w, executor{w}, items, Options{}, func(r Report) { report = r })
	if err != nil || job != nil {
		t.Fatalf("job = %v, err = %v", job, err)
	}
	if report.Sorted != 3 || report.Failed() != 0 || report.Summary() != "" {
		t.Fatalf("report = %+v", report)
	}
	want := []string{"mug", "anvil", "shovel"}
	for i, k := range w.Placed() {
		if k != want[i] {
			t.Fatalf("placed %v, want %v", w.Placed(), want)
		}
	}
}

func TestFailuresAreTalliedPerCategory(t *testing.T) {
	s := newSorter(t, resolver{}, Config{})
	w := &world{}
	items := []Item{
		item{key: "lost", category: layers.OneHanded},
		item{key: "lost", category: layers.TwoHanded},
		item{key: "gone", category: layers.Tool},
		item{key: "gone", category: layers.Tool},
	}

	anchored := position.Spec{Position: &mgl64.Vec3{}, Anchor: missingAnchor{}}
	var report Report
	if job := s.MoveAll(w, executor{w}, items, anchored, func(r Report) { report = r }); job != nil {
		t.Fatal("immediate passes do not start a job")
	}
	if report.ScrapFailed != 2 || report.ToolsFailed != 2 || report.Sorted != 0 {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Summary(); got != "2 scrap items and 2 tool items couldn't be sorted" {
		t.Fatalf("summary = %q", got)
	}
}

// missingAnchor is an anchor that is not part of any scene.
type missingAnchor struct{}

// Path ...
func (missingAnchor) Path() string { return "Environment/Gone" }

func TestSkip(t *testing.T) {
	tests := []struct {
		flags     position.Flags
		onVehicle bool
		opts      Options
		skip      bool
	}{
		{flags: position.Ignore, skip: true},
		{flags: position.Ignore, opts: Options{All: true}, skip: true},
		{flags: position.Ignore, opts: Options{Force: true}},
		{flags: position.NoAutoSort},
		{flags: position.NoAutoSort, opts: Options{Automatic: true}, skip: true},
		{flags: position.KeepOnCruiser},
		{flags: position.KeepOnCruiser, onVehicle: true, skip: true},
		{flags: position.KeepOnCruiser, onVehicle: true, opts: Options{All: true}},
		{flags: position.KeepOnCruiser, onVehicle: true, opts: Options{Force: true}},
		{flags: position.Parent | position.Exact, onVehicle: true, opts: Options{Automatic: true}},
	}
	for _, tt := range tests {
		if got := Skip(tt.flags, tt.onVehicle, tt.opts); got != tt.skip {
			t.Errorf("Skip(%s, %v, %+v) = %v, want %v", tt.flags, tt.onVehicle, tt.opts, got, tt.skip)
		}
	}
}

func TestSortFiltersByFlags(t *testing.T) {
	s := newSorter(t, resolver{"hidden": "N", "manual": "A", "car": "C"}, Config{})
	w := &world{}
	items := []Item{
		item{key: "hidden", category: layers.OneHanded},
		item{key: "manual", category: layers.OneHanded},
		item{key: "car", category: layers.Tool, onVehicle: true},
		item{key: "plain", category: layers.Tool},
	}

	var report Report
	if _, err := s.Sort(w, executor{w}, items, Options{Automatic: true}, func(r Report) { report = r }); err != nil {
		t.Fatal(err)
	}
	if report.Sorted != 1 || report.Skipped != 3 {
		t.Fatalf("report = %+v", report)
	}
}

func TestIntegrityErrorAbortsPass(t *testing.T) {
	var fatal error
	s := newSorter(t, resolver{}, Config{OnFatal: func(err error) { fatal = err }})
	w := &world{}
	items := []Item{
		item{key: "mug", category: layers.OneHanded},
		item{key: "broken", category: layers.Tool},
	}

	called := false
	_, err := s.Sort(w, executor{w}, items, Options{}, func(Report) { called = true })
	var ie *resolve.IntegrityError
	if !errors.As(err, &ie) || !errors.As(fatal, &ie) {
		t.Fatalf("err = %v, fatal = %v", err, fatal)
	}
	if called || len(w.Placed()) != 0 {
		t.Fatal("an aborted pass must not move anything")
	}
}

func TestThrottledJobIsSuperseded(t *testing.T) {
	s := newSorter(t, resolver{}, Config{Delay: 50 * time.Millisecond})
	w := &world{}
	exec := executor{w}

	firstDone := false
	first, err := s.Sort(w, exec, []Item{
		item{key: "a", category: layers.OneHanded},
		item{key: "b", category: layers.OneHanded},
		item{key: "c", category: layers.OneHanded},
	}, Options{}, func(Report) { firstDone = true })
	if err != nil || first == nil {
		t.Fatalf("job = %v, err = %v", first, err)
	}

	reports := make(chan Report, 1)
	second, err := s.Sort(w, exec, []Item{
		item{key: "x", category: layers.OneHanded},
		item{key: "y", category: layers.Tool},
	}, Options{}, func(r Report) { reports <- r })
	if err != nil || second == nil {
		t.Fatalf("job = %v, err = %v", second, err)
	}

	select {
	case r := <-reports:
		if r.Sorted != 2 {
			t.Fatalf("report = %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second job never finished")
	}
	<-first.Done()
	<-second.Done()

	if firstDone {
		t.Fatal("a superseded job must not report")
	}
	placedFirst := 0
	for _, k := range w.Placed() {
		if k == "a" || k == "b" || k == "c" {
			placedFirst++
		}
	}
	if placedFirst > 1 {
		t.Fatalf("superseded job kept placing items: %v", w.Placed())
	}
	if s.Current() != nil {
		t.Fatal("no job should be running")
	}
}

// mugs returns n mugs handed to pass.
func mugs(n, pass int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = item{key: "mug", category: layers.OneHanded, pass: pass}
	}
	return items
}

// checkStepped checks that the placements start over at the base position and rotation.
func checkStepped(t *testing.T, got []placed, first placed) {
	t.Helper()
	if len(got) != 2 {
		t.Fatalf("got %d placements, want 2: %+v", len(got), got)
	}
	if got[0].rotation != 0 || got[1].rotation != 90 {
		t.Fatalf("rotations = %d, %d, want 0, 90", got[0].rotation, got[1].rotation)
	}
	if !got[0].local.ApproxEqual(first.local) {
		t.Fatalf("first placement at %v, want %v", got[0].local, first.local)
	}
	if got[1].local.ApproxEqual(got[0].local) {
		t.Fatalf("second placement was not offset from the first: %v", got[1].local)
	}
}

func TestCountersResetBetweenSorts(t *testing.T) {
	s := newSorter(t, resolver{"mug": "1,0,1+0.5,0+90"}, Config{})
	w := &world{}

	for pass := 1; pass <= 2; pass++ {
		if _, err := s.Sort(w, executor{w}, mugs(2, pass), Options{}, nil); err != nil {
			t.Fatal(err)
		}
	}
	first := w.Pass(1)
	checkStepped(t, first, first[0])
	checkStepped(t, w.Pass(2), first[0])
}

func TestSupersedingJobStartsCountersOver(t *testing.T) {
	s := newSorter(t, resolver{"mug": "1,0,1+0.5,0+90"}, Config{Delay: 50 * time.Millisecond})
	w := &world{}
	exec := executor{w}

	first, err := s.Sort(w, exec, mugs(3, 1), Options{}, nil)
	if err != nil || first == nil {
		t.Fatalf("job = %v, err = %v", first, err)
	}
	// Let the first job place its first mug before it is superseded.
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	second, err := s.Sort(w, exec, mugs(2, 2), Options{}, func(Report) { close(done) })
	if err != nil || second == nil {
		t.Fatalf("job = %v, err = %v", second, err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second job never finished")
	}
	<-first.Done()

	earlier := w.Pass(1)
	if len(earlier) == 0 {
		t.Fatal("the first job should have placed a mug before being superseded")
	}
	checkStepped(t, w.Pass(2), earlier[0])
}

func TestReportSummary(t *testing.T) {
	tests := []struct {
		r    Report
		want string
	}{
		{Report{}, ""},
		{Report{ScrapFailed: 3}, "3 scrap items couldn't be sorted"},
		{Report{ToolsFailed: 1}, "1 tool items couldn't be sorted"},
		{Report{ScrapFailed: 2, ToolsFailed: 5}, "2 scrap items and 5 tool items couldn't be sorted"},
	}
	for _, tt := range tests {
		if got := tt.r.Summary(); got != tt.want {
			t.Errorf("%+v: summary = %q, want %q", tt.r, got, tt.want)
		}
	}
}
