// Package render invokes the external page renderer. The production
// implementation drives a headless Chrome binary; the traversal only
// depends on the Renderer interface.
package render
