package config

import "flag"

// flagBindings maps each overridable flag to the field it sets.
var flagBindings = map[string]func(dst *Config, src Config){
	"device-name":    func(d *Config, s Config) { d.DeviceName = s.DeviceName },
	"period":         func(d *Config, s Config) { d.Period = s.Period },
	"heartbeat":      func(d *Config, s Config) { d.Heartbeat = s.Heartbeat },
	"scheme":         func(d *Config, s Config) { d.Scheme = s.Scheme },
	"eddystone-url":  func(d *Config, s Config) { d.Eddystone.URL = s.Eddystone.URL },
	"tx-power":       func(d *Config, s Config) { d.Eddystone.TxPower = s.Eddystone.TxPower },
	"ibeacon-uuid":   func(d *Config, s Config) { d.IBeacon.UUID = s.IBeacon.UUID },
	"ibeacon-major":  func(d *Config, s Config) { d.IBeacon.Major = s.IBeacon.Major },
	"ibeacon-minor":  func(d *Config, s Config) { d.IBeacon.Minor = s.IBeacon.Minor },
	"measured-power": func(d *Config, s Config) { d.IBeacon.MeasuredPower = s.IBeacon.MeasuredPower },
	"adc-device":     func(d *Config, s Config) { d.ADC.Device = s.ADC.Device },
	"adc-channel":    func(d *Config, s Config) { d.ADC.Channel = s.ADC.Channel },
	"radio":          func(d *Config, s Config) { d.Radio.Backend = s.Radio.Backend },
	"hci-device":     func(d *Config, s Config) { d.Radio.Device = s.Radio.Device },
	"adv-interval":   func(d *Config, s Config) { d.Radio.Interval = s.Radio.Interval },
	"broker":         func(d *Config, s Config) { d.MQTT.Broker = s.MQTT.Broker },
	"http":           func(d *Config, s Config) { d.HTTP.Addr = s.HTTP.Addr },
	"led-pin":        func(d *Config, s Config) { d.LED.Pin = s.LED.Pin },
	"log-level":      func(d *Config, s Config) { d.LogLevel = s.LogLevel },
}

// BindFlags registers a flag for every overridable setting on fs, storing
// parsed values in c. c should hold the defaults so -help shows them.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DeviceName, "device-name", c.DeviceName, "Name advertised before the first reading")
	fs.DurationVar(&c.Period, "period", c.Period, "Sampling period")
	fs.DurationVar(&c.Heartbeat, "heartbeat", c.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.StringVar(&c.Scheme, "scheme", c.Scheme, "Advertising scheme: eddystone or ibeacon")
	fs.StringVar(&c.Eddystone.URL, "eddystone-url", c.Eddystone.URL, "URL carried by the Eddystone frame")
	fs.IntVar(&c.Eddystone.TxPower, "tx-power", c.Eddystone.TxPower, "Eddystone calibrated Tx power at 0 m (dBm)")
	fs.StringVar(&c.IBeacon.UUID, "ibeacon-uuid", c.IBeacon.UUID, "iBeacon proximity UUID")
	fs.IntVar(&c.IBeacon.Major, "ibeacon-major", c.IBeacon.Major, "iBeacon major")
	fs.IntVar(&c.IBeacon.Minor, "ibeacon-minor", c.IBeacon.Minor, "iBeacon minor")
	fs.IntVar(&c.IBeacon.MeasuredPower, "measured-power", c.IBeacon.MeasuredPower, "iBeacon measured power at 1 m (dBm)")
	fs.StringVar(&c.ADC.Device, "adc-device", c.ADC.Device, "IIO device directory of the UV sensor ADC")
	fs.IntVar(&c.ADC.Channel, "adc-channel", c.ADC.Channel, "ADC voltage channel")
	fs.StringVar(&c.Radio.Backend, "radio", c.Radio.Backend, "Bluetooth backend (hci)")
	fs.IntVar(&c.Radio.Device, "hci-device", c.Radio.Device, "HCI device index (hci backend)")
	fs.DurationVar(&c.Radio.Interval, "adv-interval", c.Radio.Interval, "Advertising interval")
	fs.StringVar(&c.MQTT.Broker, "broker", c.MQTT.Broker, "MQTT broker address (empty to disable)")
	fs.StringVar(&c.HTTP.Addr, "http", c.HTTP.Addr, "HTTP status address (empty to disable)")
	fs.IntVar(&c.LED.Pin, "led-pin", c.LED.Pin, "GPIO line for the status LED (-1 to disable)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
}

// MergeFlags copies into dst each setting whose flag was explicitly set on
// fs, taking the value from src (the Config the flags were bound to).
func MergeFlags(fs *flag.FlagSet, dst *Config, src Config) {
	fs.Visit(func(f *flag.Flag) {
		if set, ok := flagBindings[f.Name]; ok {
			set(dst, src)
		}
	})
}
