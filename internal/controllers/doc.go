// Package controllers provides model observers: a recorder that keeps a
// trace of a body, a logger, and simple actuators that push kinetic bodies
// around through their velocity.
package controllers
