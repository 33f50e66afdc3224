// Package web serves the embedded browser UI for routerdock.
//
// The UI is a single page enhanced with htmx: the index shell is
// rendered once and every interaction afterwards swaps a server-side
// rendered HTML fragment into the page. Templates and static assets
// are embedded into the binary with go:embed, so the binary has no
// runtime dependency on external files.
//
// The Renderer owns the parsed template set. View data is flattened
// in Go (NewDetailData) rather than navigated in the templates, which
// keeps template execution free of type errors when stored snapshots
// come back from persistence as generic JSON shapes.
package web
