package view

// Vars is the bag of caller-supplied variables for a single render call.
// Keys are arbitrary strings; values are passed through to the view
// without validation or coercion.
type Vars map[string]any

// bindScope builds the variable namespace visible to one view execution.
//
// Merge order is a fixed policy: ambient context entries are installed
// first, then caller vars overwrite any same-named ambient entry. Caller
// intent always wins over ambient defaults. The unmerged vars map is then
// exposed under "args" as a distinct view, so templates can enumerate
// exactly what they were explicitly given.
//
// The returned scope is owned by the single view execution it was built
// for and is discarded when that execution completes.
func bindScope(ctx *Context, r *Renderer, vars Vars) Vars {
	scope := make(Vars, len(vars)+8)

	if ctx != nil {
		scope["request"] = ctx.Request
		scope["session"] = ctx.Session
		scope["auth"] = ctx.Auth
		scope["security"] = ctx.Security
		scope["components"] = ctx.Components
		scope["utils"] = ctx.Utils
	}
	scope["view"] = r

	for k, v := range vars {
		scope[k] = v
	}

	// Installed after the merge: the raw-arguments view shadows a caller
	// binding literally named "args", whose value remains reachable as
	// args.args.
	scope["args"] = vars

	return scope
}
