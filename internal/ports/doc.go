// Package ports declares what the actors need from the outside: one
// repository per entity kind, the sending and image providers, and the
// health registry the readiness endpoint reads. Adapters implement these
// interfaces; the app packages only ever see them.
package ports
