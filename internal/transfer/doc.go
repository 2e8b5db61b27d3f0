// Package transfer moves repositories between owners: initiating transfers
// in batch and accepting the invitations they produce.
package transfer
