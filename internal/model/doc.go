// Package model defines the shared data types of docweld: navigation
// nodes discovered while walking a documentation site, and the crawl
// report that summarizes an assembled document.
package model
