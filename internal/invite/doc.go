// Package invite processes pending repository invitations in batch: accept,
// decline, and leaving repositories listed in a file.
package invite
