// Package client defines the supported AI-tool clients as a static data
// table: per-client display name, per-OS configuration file location, and the
// merge strategy for the client's document shape.
//
// Adding a client is a pure data change in the descriptors table.
package client
