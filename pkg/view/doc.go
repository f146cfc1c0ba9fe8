/*
Package view is the presentation layer of the Calyx web framework: a
filesystem-based renderer that turns a logical view name plus a bag of
variables into HTML (or any other text) output.

A long-lived Engine owns the configuration and the parse cache; each
request gets its own Renderer, which composes the four stages of a render:
resolving the view file, capturing output into an isolated frame, binding
the variable scope (ambient context entries first, caller variables
winning on collision), and executing the view as an html/template script.
Views may recursively render other views in return mode and embed the raw
result; the whitespace/comment sanitization pipeline runs exactly once, at
the outermost emit boundary.

Ambient services (request, session, auth, security, components, utils and
a self-reference to the renderer) are injected once per request through a
Context and are visible to every view without being passed explicitly.
*/
package view
