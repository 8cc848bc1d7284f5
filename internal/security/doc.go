// Package security builds the deployment posture report returned by
// shopAuth's Engine.SecurityReport.
package security
