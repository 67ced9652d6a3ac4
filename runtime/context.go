// Package runtime evaluates parsed calq statements against a symbol table.
package runtime

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"sort"

	"github.com/dhamidi/calq/config"
	"github.com/dhamidi/calq/value"
	"github.com/tliron/commonlog"
)

// ErrConstant is returned when assigning to a constant.
var ErrConstant = errors.New("cannot assign to a constant")

// Symtab is a symbol table, a map of names to values.
type Symtab map[string]value.Value

// Context holds the binding of names to values and builtin functions. It
// implements value.Context.
type Context struct {
	config *config.Config
	ctx    context.Context
	log    commonlog.Logger
	out    io.Writer

	// Constants are the predefined names that cannot be reassigned.
	Constants Symtab
	// Vars are the user's variables.
	Vars      Symtab
	functions map[string]*value.Function
}

func NewContext(conf *config.Config) *Context {
	if conf == nil {
		conf = config.Default()
	}
	c := &Context{
		config:    conf,
		ctx:       context.Background(),
		log:       commonlog.GetLogger("calq.runtime"),
		out:       os.Stdout,
		Constants: Symtab{},
		Vars:      Symtab{},
		functions: map[string]*value.Function{},
	}
	c.SetConstants()
	for _, fn := range builtins() {
		c.functions[fn.Name] = fn
	}
	return c
}

// SetOutput sets where disp prints.
func (c *Context) SetOutput(w io.Writer) {
	c.out = w
}

func (c *Context) Config() *config.Config {
	return c.config
}

// SetConstants assigns the predefined constants.
func (c *Context) SetConstants() {
	c.Constants["pi"] = value.Scalar(math.Pi)
	c.Constants["e"] = value.Scalar(math.E)
	c.Constants["inf"] = value.Scalar(math.Inf(1))
	c.Constants["nan"] = value.Scalar(math.NaN())
	c.Constants["eps"] = value.Scalar(math.Nextafter(1, 2) - 1)
	c.Constants["true"] = value.Scalar(1)
	c.Constants["false"] = value.Scalar(0)
}

func (c *Context) Lookup(name string) (value.Value, bool) {
	if v, ok := c.Vars[name]; ok {
		return v, true
	}
	v, ok := c.Constants[name]
	return v, ok
}

func (c *Context) Assign(name string, v value.Value) error {
	if _, ok := c.Constants[name]; ok {
		return value.Errorf("%s: %s", name, ErrConstant)
	}
	if _, ok := c.functions[name]; ok {
		return value.Errorf("%s: cannot assign to a builtin function", name)
	}
	c.log.Debugf("assign %s = %s", name, v)
	c.Vars[name] = v
	return nil
}

func (c *Context) Function(name string) (*value.Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

func (c *Context) Precision() int {
	return c.config.Precision()
}

// Err reports the cancellation of the context.Context evaluation runs under.
func (c *Context) Err() error {
	return c.ctx.Err()
}

// with returns a shallow copy of c that evaluates under ctx.
func (c *Context) with(ctx context.Context) *Context {
	cp := *c
	cp.ctx = ctx
	return &cp
}

// Known returns every constant and builtin function name.
func (c *Context) Known() []string {
	names := make([]string, 0, len(c.Constants)+len(c.functions))
	for name := range c.Constants {
		names = append(names, name)
	}
	for name := range c.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the user's variable names, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.Vars))
	for name := range c.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtins returns the builtin functions sorted by name.
func (c *Context) Builtins() []*value.Function {
	fns := make([]*value.Function, 0, len(c.functions))
	for _, fn := range c.functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

func (c *Context) IsBuiltin(name string) bool {
	_, ok := c.functions[name]
	return ok
}

// Clear removes every variable.
func (c *Context) Clear() {
	c.Vars = Symtab{}
}
