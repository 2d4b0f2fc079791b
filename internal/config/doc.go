// Package config defines docweld's configuration: crawl options built
// from CLI flags and site profiles (selectors, credentials) loaded from
// the optional .docweld YAML file.
package config
