package dashboard

import "io"

// Renderer is the template contract the page controller renders the host
// page through. NewTemplateRenderer satisfies it with the embedded
// templates; hosts with their own template stack can substitute theirs.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
