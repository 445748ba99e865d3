package ble

import "github.com/prometheus/client_golang/prometheus"

var (
	scansStartedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parasite_monitor_ble_scans_started_total",
	})
	scanFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parasite_monitor_ble_scan_failures_total",
	})
	advertisementsReceivedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parasite_monitor_ble_advertisements_received_total",
	})
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		scansStartedCounter,
		scanFailuresCounter,
		advertisementsReceivedCounter,
	)
}
