// Package main provides the entry point for the docweld CLI.
//
// docweld crawls a hierarchically organized documentation website and
// welds every reachable page into a single PDF whose bookmark tree
// mirrors the site's navigation hierarchy.
//
// Usage:
//
//	docweld crawl https://developer.android.com
//	docweld history
//
// See --help for all available options.
package main

// main is the entry point for docweld.
func main() {
	Execute()
}
