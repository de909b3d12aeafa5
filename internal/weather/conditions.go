package weather

// Verdict is the answer to a derived condition, including "don't know".
type Verdict int

const (
	// Unknown means there is no snapshot or it does not cover the window.
	Unknown Verdict = iota
	Yes
	No
)

func verdictOf(b bool) Verdict {
	if b {
		return Yes
	}
	return No
}

// Bool collapses the verdict to a plain bool; Unknown reads as false.
func (v Verdict) Bool() bool {
	return v == Yes
}

// Known reports whether the verdict is Yes or No.
func (v Verdict) Known() bool {
	return v != Unknown
}

func (v Verdict) String() string {
	switch v {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// MarshalText renders the verdict as yes, no or unknown.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// IsDryDay reports whether a day saw at most MinPrecipitationMM of rain and
// reached at least HotTemperatureC.
func (t Thresholds) IsDryDay(d DayWeather) bool {
	lowPrecipitation := d.PrecipitationMM <= t.MinPrecipitationMM
	highMaxTemperature := d.HighTemperatureC >= t.HotTemperatureC
	return lowPrecipitation && highMaxTemperature
}

// DryOver evaluates the dry condition across every day in r.
// The verdict is Unknown when snap is nil or daily does not contain every
// index of r. An empty range inside the forecast holds vacuously.
func DryOver(snap *Snapshot, r IndexRange, t Thresholds) Verdict {
	if snap == nil {
		return Unknown
	}
	if r.Lo < 0 || r.Hi < r.Lo || r.Hi > len(snap.Daily) {
		return Unknown
	}
	for _, d := range snap.Daily[r.Lo:r.Hi] {
		if !t.IsDryDay(d) {
			return No
		}
	}
	return Yes
}

// WindyNow evaluates whether the current wind speed reaches StrongWindKMH.
func WindyNow(snap *Snapshot, t Thresholds) Verdict {
	if snap == nil {
		return Unknown
	}
	return verdictOf(snap.Current.WindSpeedKMH >= t.StrongWindKMH)
}

// Report bundles all derived conditions for one snapshot.
type Report struct {
	SnapshotID string  `json:"snapshotId,omitempty"`
	WasDry     Verdict `json:"wasDry"`
	IsDry      Verdict `json:"isDry"`
	WillBeDry  Verdict `json:"willBeDry"`
	IsWindy    Verdict `json:"isWindy"`
}

// Evaluate derives every condition from snap.
func Evaluate(snap *Snapshot, w WindowConfig, t Thresholds) Report {
	r := Report{
		WasDry:    DryOver(snap, w.Past(), t),
		IsDry:     DryOver(snap, w.Today(), t),
		WillBeDry: DryOver(snap, w.Future(), t),
		IsWindy:   WindyNow(snap, t),
	}
	if snap != nil {
		r.SnapshotID = snap.ID
	}
	return r
}
