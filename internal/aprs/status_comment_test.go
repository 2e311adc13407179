package aprs

import "testing"

func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func TestParseStatusCommentRF(t *testing.T) {
	c := ParseStatusComment("RF:+54-1.1ppm/-0.16dB/+7.1dB@10km[19481]/+16.8dB@10km[7/13]")

	if c.RFCorrectionManual == nil || *c.RFCorrectionManual != 54 {
		t.Fatalf("RFCorrectionManual = %v, want 54", c.RFCorrectionManual)
	}
	if f64(c.RFCorrectionAutomatic) != -1.1 {
		t.Errorf("RFCorrectionAutomatic = %v, want -1.1", f64(c.RFCorrectionAutomatic))
	}
	if f64(c.Noise) != -0.16 {
		t.Errorf("Noise = %v, want -0.16", f64(c.Noise))
	}
	if f64(c.SendersSignalQuality) != 7.1 {
		t.Errorf("SendersSignalQuality = %v, want 7.1", f64(c.SendersSignalQuality))
	}
	if c.SendersMessages == nil || *c.SendersMessages != 19481 {
		t.Errorf("SendersMessages = %v, want 19481", c.SendersMessages)
	}
	if f64(c.GoodSendersSignalQuality) != 16.8 {
		t.Errorf("GoodSendersSignalQuality = %v, want 16.8", f64(c.GoodSendersSignalQuality))
	}
	if c.GoodSenders == nil || *c.GoodSenders != 7 {
		t.Errorf("GoodSenders = %v, want 7", c.GoodSenders)
	}
	if c.GoodAndBadSenders == nil || *c.GoodAndBadSenders != 13 {
		t.Errorf("GoodAndBadSenders = %v, want 13", c.GoodAndBadSenders)
	}
	if c.Unparsed != "" {
		t.Errorf("Unparsed = %q, want empty", c.Unparsed)
	}
}

func TestParseStatusCommentComposite(t *testing.T) {
	const input = "v0.2.7.RPI-GPU CPU:23.9 RAM:25.0/458.8MB NTP:1.2ms/3.4ppm 7/13Acfts[1h] Lat:0.2s 46.5C 5.0V 0.1A"
	c := ParseStatusComment(input)

	if c.Version == nil || *c.Version != "0.2.7" {
		t.Errorf("Version = %v, want 0.2.7", c.Version)
	}
	if c.Platform == nil || *c.Platform != "RPI-GPU" {
		t.Errorf("Platform = %v, want RPI-GPU", c.Platform)
	}
	if f64(c.CPULoad) != 23.9 {
		t.Errorf("CPULoad = %v, want 23.9", f64(c.CPULoad))
	}
	if f64(c.RAMFree) != 25.0 || f64(c.RAMTotal) != 458.8 {
		t.Errorf("RAM = %v/%v, want 25.0/458.8", f64(c.RAMFree), f64(c.RAMTotal))
	}
	if f64(c.NTPOffset) != 1.2 || f64(c.NTPCorrection) != 3.4 {
		t.Errorf("NTP = %v/%v, want 1.2/3.4", f64(c.NTPOffset), f64(c.NTPCorrection))
	}
	if c.VisibleSenders == nil || *c.VisibleSenders != 7 || c.Senders == nil || *c.Senders != 13 {
		t.Errorf("Acfts = %v/%v, want 7/13", c.VisibleSenders, c.Senders)
	}
	if f64(c.Latency) != 0.2 {
		t.Errorf("Latency = %v, want 0.2", f64(c.Latency))
	}
	if f64(c.CPUTemperature) != 46.5 {
		t.Errorf("CPUTemperature = %v, want 46.5", f64(c.CPUTemperature))
	}
	if f64(c.Voltage) != 5.0 {
		t.Errorf("Voltage = %v, want 5.0", f64(c.Voltage))
	}
	if f64(c.Amperage) != 0.1 {
		t.Errorf("Amperage = %v, want 0.1", f64(c.Amperage))
	}
	if c.Unparsed != "" {
		t.Errorf("Unparsed = %q, want empty", c.Unparsed)
	}
}
