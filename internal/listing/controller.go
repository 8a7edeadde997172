package listing

import "slices"

// Controller binds a Grid to the filter controls of one page and reruns
// the pipeline once per user event. It is not safe for concurrent use;
// callers serialize events.
type Controller struct {
	grid     *Grid
	controls Controls
	subs     []subscriber
	nextSub  int
	last     Result
	applied  bool
}

type subscriber struct {
	id int
	fn func(Result)
}

type ControllerOption func(*Controller)

// WithControls declares which controls exist on the page. The default is all four.
func WithControls(roles ...Role) ControllerOption {
	return func(c *Controller) { c.controls = NewControls(roles...) }
}

// WithValues declares controls with initial values, e.g. from a query string.
func WithValues(ctl Controls) ControllerOption {
	return func(c *Controller) { c.controls = ctl }
}

func NewController(g *Grid, opts ...ControllerOption) *Controller {
	c := &Controller{
		grid:     g,
		controls: NewControls(Roles...),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) Grid() *Grid        { return c.grid }
func (c *Controller) Controls() Controls { return c.controls }
func (c *Controller) Criteria() Criteria { return c.controls.Criteria() }

// Last returns the most recent result and whether the pipeline has run.
func (c *Controller) Last() (Result, bool) { return c.last, c.applied }

// Subscribe registers fn to receive every result, after the subscribers
// registered before it. The returned func removes it.
func (c *Controller) Subscribe(fn func(Result)) (cancel func()) {
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		c.subs = slices.DeleteFunc(c.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Input handles an input/change event on a control. Events for absent
// controls are ignored and report false.
func (c *Controller) Input(r Role, value string) (Result, bool) {
	if !c.controls.Set(r, value) {
		return Result{}, false
	}
	return c.Apply(), true
}

// Search handles the explicit search action.
func (c *Controller) Search() Result { return c.Apply() }

// Reset clears every control and reapplies. Card order is left as the
// last sort produced it.
func (c *Controller) Reset() Result {
	c.controls.Clear()
	return c.Apply()
}

// Apply runs the pipeline with the current control values and notifies subscribers.
func (c *Controller) Apply() Result {
	res := c.grid.Apply(c.controls.Criteria())
	c.last, c.applied = res, true
	// a subscriber may cancel itself while being notified
	for _, s := range slices.Clone(c.subs) {
		s.fn(res)
	}
	return res
}
