package tags

import (
	"math"
	"time"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/utc-go"

	"github.com/eluv-io/cbor-go/format/cbor"
)

// TimeReviver revives standard date/time strings (tag 0) and epoch-based
// date/time values (tag 1) as utc.UTC wrapped in a cbor.Opaque. Epoch values
// may be integers or floats, fractional seconds are rounded to the nearest
// nanosecond.
func TimeReviver(key cbor.Key, v cbor.Value) (cbor.Value, error) {
	if t, ok := tagged(key, v, DateTimeString); ok {
		s, ok := t.Value.(cbor.TextString)
		if !ok {
			return nil, invalidContent("tags.TimeReviver", t)
		}
		u, err := utc.Parse(time.RFC3339Nano, string(s))
		if err != nil {
			return nil, errors.E("tags.TimeReviver", errors.K.Invalid, err, "tag", t.Tag)
		}
		return cbor.Opaque{V: u}, nil
	}

	if t, ok := tagged(key, v, EpochDateTime); ok {
		switch c := t.Value.(type) {
		case cbor.Uint:
			if uint64(c) > math.MaxInt64 {
				return nil, invalidContent("tags.TimeReviver", t)
			}
			return cbor.Opaque{V: utc.Unix(int64(c), 0)}, nil
		case cbor.NegInt:
			sec, ok := c.Int64()
			if !ok {
				return nil, invalidContent("tags.TimeReviver", t)
			}
			return cbor.Opaque{V: utc.Unix(sec, 0)}, nil
		case cbor.Float:
			f := float64(c)
			if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
				return nil, invalidContent("tags.TimeReviver", t)
			}
			sec, frac := math.Modf(f)
			return cbor.Opaque{V: utc.Unix(int64(sec), int64(math.Round(frac*1e9)))}, nil
		}
		return nil, invalidContent("tags.TimeReviver", t)
	}
	return v, nil
}

// TimeReplacer encodes utc.UTC and time.Time values as epoch-based date/time
// (tag 1): integer seconds if the time has no fractional second, a float
// otherwise.
func TimeReplacer(key cbor.Key, v interface{}) (cbor.EncodeAction, error) {
	var t time.Time
	switch x := v.(type) {
	case utc.UTC:
		t = x.Time
	case *utc.UTC:
		if x == nil {
			return cbor.Keep(v), nil
		}
		t = x.Time
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return cbor.Keep(v), nil
		}
		t = *x
	default:
		return cbor.Keep(v), nil
	}

	if t.Nanosecond() == 0 {
		return cbor.Keep(cbor.NewTagged(EpochDateTime, cbor.Int(t.Unix()))), nil
	}
	f := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return cbor.Keep(cbor.NewTagged(EpochDateTime, cbor.Float(f))), nil
}

func invalidContent(op string, t *cbor.Tagged) error {
	return errors.E(op, errors.K.Invalid,
		"reason", "invalid tag content",
		"tag", t.Tag,
		"content", cbor.Diagnose(t.Value))
}
