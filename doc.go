// Package main provides the entry point of jesite, the website and back office of a
// Junior Enterprise. It runs a fiber web server with the public pages, a JSON api for the
// back office with role based access to its sections, and a scheduler sending the newsletter.
// Data is kept with gorm in MySQL, PostgreSQL or sqlite.
package main
