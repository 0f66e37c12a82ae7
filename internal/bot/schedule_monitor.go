package bot

import (
	"time"
)

// startScheduleMonitor starts the background schedule refresh process.
func (b *Bot) startScheduleMonitor() {
	go b.scheduleMonitorLoop()
}

// scheduleMonitorLoop periodically re-pulls the schedule sheet for every
// guild tracker. A failed refresh keeps the tracker's last-known-good
// schedule; the failure is logged inside RefreshSchedule and the next
// tick tries again.
func (b *Bot) scheduleMonitorLoop() {
	b.logger.Info("Starting schedule monitor")

	ticker := time.NewTicker(b.config.ScheduleRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.refreshSchedules()
		case <-b.stopChan:
			b.logger.Info("Stopping schedule monitor")
			return
		}
	}
}

func (b *Bot) refreshSchedules() {
	for _, t := range b.trackers.Trackers() {
		t.RefreshSchedule(b.sheetsClient)
	}
}
