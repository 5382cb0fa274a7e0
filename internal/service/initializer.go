package service

import (
	"time"

	"syringe_rig/internal/gcode"
	"syringe_rig/internal/logger"
	"syringe_rig/internal/models"
	"syringe_rig/internal/transport"
)

// DeviceInitializer brings the controller to a homed, enabled and calibrated
// state. The firmware never confirms that homing finished, so the sequence
// waits fixed durations instead.
type DeviceInitializer struct {
	tr     transport.Transport
	cfg    models.DeviceConfig
	timing models.InitTiming
	clock  Clock
	log    *logger.Logger
}

func NewDeviceInitializer(tr transport.Transport, cfg models.DeviceConfig, timing models.InitTiming, clock Clock, log *logger.Logger) *DeviceInitializer {
	if clock == nil {
		clock = SystemClock()
	}
	return &DeviceInitializer{tr: tr, cfg: cfg, timing: timing, clock: clock, log: logger.Or(log)}
}

// Run sends the calibration sequence. Any failed write aborts it with the
// transport error. When settings reporting is enabled the firmware's reply
// is returned; a failed read there is only logged.
func (d *DeviceInitializer) Run() ([]string, error) {
	if d.timing.ConnectSettle > 0 {
		d.clock.Sleep(d.timing.ConnectSettle)
	}

	if err := d.send(gcode.Wake(), d.timing.CommandGap); err != nil {
		return nil, err
	}
	if d.timing.RestoreDefaults {
		if err := d.send(gcode.RestoreDefaults(), d.timing.CommandGap); err != nil {
			return nil, err
		}
		if err := d.send(gcode.SaveSettings(), d.timing.CommandGap); err != nil {
			return nil, err
		}
	}

	d.log.Infow("homing", "wait", d.timing.HomingWait)
	if err := d.send(gcode.Home(gcode.AxisX, gcode.AxisY), d.timing.HomingWait); err != nil {
		return nil, err
	}

	for _, cmd := range []string{
		gcode.EnableMotors(),
		gcode.SetFeedRate(d.cfg.FeedRate),
		gcode.StepsPerUnit(d.cfg.StepsPerUnitX, d.cfg.StepsPerUnitY),
	} {
		if err := d.send(cmd, 0); err != nil {
			return nil, err
		}
	}
	if d.timing.SettleWait > 0 {
		d.clock.Sleep(d.timing.SettleWait)
	}

	if !d.timing.ReportSettings {
		return nil, nil
	}
	if err := d.send(gcode.ReportSettings(), 0); err != nil {
		return nil, err
	}
	lines, err := d.tr.ReadAvailableLines()
	if err != nil {
		d.log.Warnw("settings_report_read_failed", "err", err)
	}
	for _, l := range lines {
		d.log.Infow("settings_report", "line", l)
	}
	return lines, nil
}

// send writes cmd and then blocks for wait.
func (d *DeviceInitializer) send(cmd string, wait time.Duration) error {
	if err := d.tr.SendCommand(cmd); err != nil {
		d.log.Errorw("init_command_failed", "cmd", cmd, "err", err)
		return err
	}
	d.log.Debugw("init_command_sent", "cmd", cmd)
	if wait > 0 {
		d.clock.Sleep(wait)
	}
	return nil
}
