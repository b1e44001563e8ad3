// Package jobmanager provides the data model for shell job control.
//
// A Job represents one submitted command line: a pipeline of Processes that
// share a process group and move through Pending, Running, Stopped, Done and
// Killed together.
//
// A Table owns the active Jobs, the finished Jobs awaiting reclamation, and
// the Job currently associated with the controlling terminal. Job ids are
// small integers that are only unique among active Jobs.
package jobmanager
