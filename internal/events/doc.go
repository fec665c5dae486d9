// Package events decouples the code that decides background work is needed
// from the code that runs it. The streak scheduler emits TaskRequestEvents;
// the task package registers handlers that turn them into persisted tasks.
package events
