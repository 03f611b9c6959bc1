package types

// Property is a named value available to prop("Name") calls and to
// editor completion.
type Property struct {
	// Name is the canonical property name as written in prop("...").
	Name string
	// Ty is the declared property type.
	Ty Ty
	// DisabledReason, when non-empty, makes completion surface the
	// property as disabled with this explanation.
	DisabledReason string
}

// Context is the semantic environment for validation and editor
// features: host-supplied properties plus the function registry.
type Context struct {
	Properties []Property
	Functions  []FunctionSig
}

// NewContext builds a context over the builtin function registry.
func NewContext(properties []Property) *Context {
	return &Context{Properties: properties, Functions: Builtins()}
}

// Lookup resolves a property type by name.
func (c *Context) Lookup(name string) (Ty, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p.Ty, true
		}
	}
	return Ty{}, false
}

// Function resolves a function signature by name.
func (c *Context) Function(name string) (*FunctionSig, bool) {
	for i := range c.Functions {
		if c.Functions[i].Name == name {
			return &c.Functions[i], true
		}
	}
	return nil, false
}
