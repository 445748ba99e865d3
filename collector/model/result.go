package model

import (
	"fmt"

	"github.com/robertof/go-parasite-monitor/sensor"
)

// RejectReason explains why an advertisement did not produce a reading.
type RejectReason uint8

const (
	Accepted RejectReason = iota
	RejectName
	RejectServiceData
	RejectProtocolVersion
	RejectBattery
	RejectAddrPrefix
)

var rejectReasons = []RejectReason{
	RejectName,
	RejectServiceData,
	RejectProtocolVersion,
	RejectBattery,
	RejectAddrPrefix,
}

func RejectReasons() []RejectReason {
	return rejectReasons
}

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectName:
		return "name"
	case RejectServiceData:
		return "service_data"
	case RejectProtocolVersion:
		return "protocol_version"
	case RejectBattery:
		return "battery"
	case RejectAddrPrefix:
		return "addr_prefix"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(r))
	}
}

// Result is either an accepted reading or the reason the advertisement was dropped.
type Result struct {
	Reading sensor.Reading
	Reason  RejectReason
}

func Accept(r sensor.Reading) Result {
	return Result{Reading: r, Reason: Accepted}
}

func Reject(reason RejectReason) Result {
	return Result{Reason: reason}
}

func (c Result) Accepted() bool {
	return c.Reason == Accepted
}

func (c Result) String() string {
	if !c.Accepted() {
		return fmt.Sprintf("result:rejected(%v)", c.Reason)
	} else {
		return fmt.Sprintf("result:accepted(%v)", c.Reading)
	}
}
