// Package fdlimit adjusts the process file-descriptor limit before a
// crawl begins.
package fdlimit
