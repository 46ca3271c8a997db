package presenter

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool) bool
}

// LifecycleContract narrows what presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// CaptureView updates UI elements affected by capture toggling.
type CaptureView interface {
	PreviewReset()
	SetCaptureLabel(enabled bool)
}

// CapturePresenter owns the background screen capture toggle.
type CapturePresenter struct {
	model   CaptureModel
	service LifecycleContract
	view    CaptureView
	// OnChange, if set, is told about every effective toggle (e.g. to
	// persist the choice).
	OnChange func(enabled bool)
}

func NewCapturePresenter(model CaptureModel, service LifecycleContract, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, view: view}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil
}

// Enable starts the capture service. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	c.view.SetCaptureLabel(true)
	if c.OnChange != nil {
		c.OnChange(true)
	}
}

// Disable stops the capture service and drops the background from the
// preview. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.PreviewReset()
	c.view.SetCaptureLabel(false)
	if c.OnChange != nil {
		c.OnChange(false)
	}
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}
