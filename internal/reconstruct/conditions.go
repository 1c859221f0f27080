package reconstruct

import (
	"fmt"

	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// conditionReconstructors render observed or forecast conditions in
// grammar order. NSW is added only where it is allowed.
func conditionReconstructors(withNSW bool) []Reconstructor[*model.Conditions] {
	list := []Reconstructor[*model.Conditions]{
		{lexer.KindSurfaceWind, func(c *model.Conditions, _ *Context) []string { return one(windText(c.SurfaceWind)) }},
		{lexer.KindCAVOK, func(c *model.Conditions, _ *Context) []string { return when(c.CAVOK, "CAVOK") }},
		{lexer.KindHorizontalVisibility, func(c *model.Conditions, _ *Context) []string {
			if c.CAVOK {
				return nil
			}
			return one(visibilityText(c.Visibility))
		}},
		{lexer.KindWeather, func(c *model.Conditions, _ *Context) []string {
			if c.CAVOK {
				return nil
			}
			return c.Weather
		}},
	}
	if withNSW {
		list = append(list, Reconstructor[*model.Conditions]{lexer.KindNoSignificantWeather,
			func(c *model.Conditions, _ *Context) []string {
				return when(c.NoSignificantWeather && len(c.Weather) == 0, "NSW")
			}})
	}
	return append(list, Reconstructor[*model.Conditions]{lexer.KindCloud,
		func(c *model.Conditions, _ *Context) []string {
			if c.CAVOK {
				return nil
			}
			return cloudTexts(c.Clouds)
		}})
}

var (
	baseConditions   = conditionReconstructors(false)
	changeConditions = conditionReconstructors(true)
)

func windText(w *model.Wind) string {
	if w == nil {
		return ""
	}
	dir := "VRB"
	if !w.Variable {
		dir = fmt.Sprintf("%03d", w.Direction)
	}
	s := dir + operatorPrefix(w.MeanOperator) + twoDigits(w.MeanSpeed)
	if w.Gust != nil {
		s += "G" + operatorPrefix(w.GustOperator) + twoDigits(*w.Gust)
	}
	return s + w.Unit
}

func operatorPrefix(op model.Operator) string {
	switch op {
	case model.OperatorAbove:
		return "P"
	case model.OperatorBelow:
		return "M"
	}
	return ""
}

// visibilityText renders metres. 10 km or more is 9999 and below 50 m is
// 0000.
func visibilityText(v *model.Visibility) string {
	if v == nil {
		return ""
	}
	var s string
	switch {
	case v.Distance >= 10000:
		s = "9999"
	case v.Operator == model.OperatorBelow && v.Distance <= 50:
		s = "0000"
	default:
		s = fmt.Sprintf("%04d", v.Distance)
	}
	return s + v.Direction
}

func cloudTexts(c *model.Clouds) []string {
	if c == nil {
		return nil
	}
	switch {
	case c.NoSignificantCloud:
		return []string{"NSC"}
	case c.NoCloudDetected:
		return []string{"NCD"}
	case c.SkyClear:
		return []string{"SKC"}
	case c.VerticalVisibilityMissing:
		return []string{"VV///"}
	case c.VerticalVisibility != nil:
		return []string{fmt.Sprintf("VV%03d", *c.VerticalVisibility/100)}
	}
	out := make([]string, 0, len(c.Layers))
	for _, l := range c.Layers {
		height := "///"
		if l.Height != nil {
			height = fmt.Sprintf("%03d", *l.Height/100)
		}
		out = append(out, l.Cover+height+l.Type)
	}
	return out
}
