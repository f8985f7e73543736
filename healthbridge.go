// Package healthbridge is the public surface of the unified health-data
// normalization layer. It re-exports the service, its request/response
// types, and the error taxonomy so embedders need only this package and a
// native transport.
package healthbridge

import (
	"log/slog"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

// Service types.
type (
	Service           = bridge.Service
	Options           = bridge.Options
	Query             = bridge.Query
	Update            = bridge.Update
	Subscription      = bridge.Subscription
	PermissionRequest = bridge.PermissionRequest
)

// Record and vocabulary types.
type (
	Platform         = models.Platform
	DataType         = models.DataType
	WorkoutType      = models.WorkoutType
	SleepStage       = models.SleepStage
	AccessType       = models.AccessType
	PermissionStatus = models.PermissionStatus
	Unit             = models.Unit
	Record           = models.Record
	StageInterval    = models.StageInterval
	Nutrition        = models.Nutrition
	WriteRequest     = models.WriteRequest
)

// Transport contracts a platform integration implements.
type (
	Transport  = native.Transport
	Observer   = native.Observer
	ChangeFeed = native.ChangeFeed
)

const (
	PlatformHealthKit     = models.PlatformHealthKit
	PlatformHealthConnect = models.PlatformHealthConnect

	AccessRead  = models.AccessRead
	AccessWrite = models.AccessWrite

	StatusAuthorized    = models.StatusAuthorized
	StatusDenied        = models.StatusDenied
	StatusNotDetermined = models.StatusNotDetermined
	StatusUnavailable   = models.StatusUnavailable
)

// Error taxonomy.
var (
	ErrNotAvailable              = models.ErrNotAvailable
	ErrPermissionDenied          = models.ErrPermissionDenied
	ErrUnsupportedDataType       = models.ErrUnsupportedDataType
	ErrInvalidParameters         = models.ErrInvalidParameters
	ErrHealthServiceNotInstalled = models.ErrHealthServiceNotInstalled
	ErrReadFailed                = models.ErrReadFailed
	ErrWriteFailed               = models.ErrWriteFailed
	ErrUnknown                   = models.ErrUnknown
)

// New creates the normalization service for one platform transport.
func New(platform Platform, transport Transport, opts Options, log *slog.Logger) *Service {
	return bridge.New(platform, transport, opts, log)
}
