package core

// ActionHandler runs a deferred command in main-loop context
type ActionHandler func(e *Engine) error

// Action is a command the host can post through the command register
type Action struct {
	Code    byte
	Name    string
	Handler ActionHandler
}

// HookHandler runs in bus context right after a raw byte lands in a watched
// register. It must not block.
type HookHandler func(e *Engine, b byte)

// Hook watches one register of one device
type Hook struct {
	Device  uint8
	Reg     uint8
	Name    string
	Handler HookHandler
}

// Dispatcher maps command codes to actions and watched registers to hooks.
// Registration happens before the bus is enabled, so lookups take no lock.
type Dispatcher struct {
	actions [256]*Action
	count   int
	hooks   [2][256]*Hook
	pending PendingSlot
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an action, replacing any action with the same code
func (d *Dispatcher) Register(code byte, name string, handler ActionHandler) {
	if d.actions[code] == nil {
		d.count++
	}
	d.actions[code] = &Action{Code: code, Name: name, Handler: handler}
}

// Lookup returns the action registered for code
func (d *Dispatcher) Lookup(code byte) (*Action, bool) {
	a := d.actions[code]
	return a, a != nil
}

// Count returns the number of registered actions
func (d *Dispatcher) Count() int {
	return d.count
}

// Watch installs a hook on a register, replacing any previous hook there
func (d *Dispatcher) Watch(device, reg uint8, name string, handler HookHandler) {
	d.hooks[device&1][reg] = &Hook{Device: device & 1, Reg: reg, Name: name, Handler: handler}
}

// Observe runs the hook watching (device, reg), if any
func (d *Dispatcher) Observe(e *Engine, device, reg uint8, b byte) {
	if h := d.hooks[device&1][reg]; h != nil {
		h.Handler(e, b)
	}
}

// Post queues code for the main loop, overwriting an unexecuted code
func (d *Dispatcher) Post(code byte) {
	d.pending.Post(code)
	RecordEvent(EvtCommand, 0, 0, uint16(code))
}

// Pending returns the queued code without taking it
func (d *Dispatcher) Pending() (byte, bool) {
	return d.pending.Peek()
}

// Execute takes the queued code and runs its action. The slot is cleared
// whether or not the code is known.
func (d *Dispatcher) Execute(e *Engine) (byte, error) {
	code, ok := d.pending.Take()
	if !ok {
		return 0, nil
	}
	a, ok := d.Lookup(code)
	if !ok {
		return code, ErrUnknownCommand
	}
	return code, a.Handler(e)
}
