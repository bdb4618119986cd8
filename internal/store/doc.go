// Package store defines the persistence interfaces and shared persistence
// errors for the application. Implementations live under
// internal/platform/mongodb; services and handlers depend only on the
// interfaces defined here.
package store
