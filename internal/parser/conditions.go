package parser

import (
	"tac_converter/internal/conversion"
	"tac_converter/internal/lexer"
	"tac_converter/internal/model"
)

// conditionRules adapts condition extraction to where the conditions
// appear.
type conditionRules struct {
	// name is used in issue messages, e.g. "TAF base forecast".
	name string

	// allowNSW permits NSW. Otherwise NSW is a SYNTAX issue and extraction
	// stops at it.
	allowNSW bool

	// directionalVisibility permits a compass direction on visibility.
	directionalVisibility bool

	// order lists for each condition kind the kinds it must precede. A
	// misplaced token is reported and its value is not used.
	order conditionOrder

	// other is offered every token first; it returns true when it consumed
	// the token.
	other func(pos int, tok *lexer.Token) bool
}

// conditionOrder maps a kind to the kinds that must not appear before it.
type conditionOrder map[lexer.Kind][]lexer.Kind

var (
	// tafBaseOrder also places the temperature forecasts last.
	tafBaseOrder = conditionOrder{
		lexer.KindSurfaceWind: {
			lexer.KindCAVOK, lexer.KindHorizontalVisibility, lexer.KindWeather, lexer.KindCloud,
			lexer.KindMinTemperature, lexer.KindMaxTemperature,
		},
		lexer.KindCAVOK: {
			lexer.KindHorizontalVisibility, lexer.KindWeather, lexer.KindCloud,
			lexer.KindMinTemperature, lexer.KindMaxTemperature,
		},
		lexer.KindHorizontalVisibility: {
			lexer.KindWeather, lexer.KindCloud, lexer.KindMinTemperature, lexer.KindMaxTemperature,
		},
		lexer.KindWeather: {lexer.KindCloud, lexer.KindMinTemperature, lexer.KindMaxTemperature},
		lexer.KindCloud:   {lexer.KindMinTemperature, lexer.KindMaxTemperature},
	}

	// changeOrder applies to TAF change forecasts and METAR trends.
	changeOrder = conditionOrder{
		lexer.KindSurfaceWind: {
			lexer.KindCAVOK, lexer.KindHorizontalVisibility, lexer.KindWeather,
			lexer.KindNoSignificantWeather, lexer.KindCloud,
		},
		lexer.KindCAVOK: {
			lexer.KindHorizontalVisibility, lexer.KindWeather, lexer.KindNoSignificantWeather, lexer.KindCloud,
		},
		lexer.KindHorizontalVisibility: {lexer.KindWeather, lexer.KindNoSignificantWeather, lexer.KindCloud},
		lexer.KindWeather:              {lexer.KindNoSignificantWeather, lexer.KindCloud},
		lexer.KindNoSignificantWeather: {lexer.KindCloud},
	}

	observationOrder = conditionOrder{
		lexer.KindSurfaceWind:          {lexer.KindCAVOK, lexer.KindHorizontalVisibility, lexer.KindWeather, lexer.KindCloud},
		lexer.KindCAVOK:                {lexer.KindHorizontalVisibility, lexer.KindWeather, lexer.KindCloud},
		lexer.KindHorizontalVisibility: {lexer.KindWeather, lexer.KindCloud},
		lexer.KindWeather:              {lexer.KindCloud},
	}
)

// extractConditions fills c from the tokens of part. It returns the
// position where extraction stopped (part length when it ran through) and
// whether any condition token was found.
func extractConditions(pr *prepared, part *lexer.Sequence, c *model.Conditions, rules conditionRules) (int, bool) {
	found := false
	conflict := false
	for i := 0; i < part.Len(); i++ {
		tok := part.Token(i)
		if tok.Status != lexer.StatusOK {
			continue
		}
		if rules.other != nil && rules.other(i, tok) {
			found = true
			continue
		}
		if after, ok := rules.order[tok.Kind]; ok {
			if issue := part.CheckBefore(i, after...); issue != nil {
				pr.issues.Append(*issue)
				found = true
				continue
			}
		}
		switch tok.Kind {
		case lexer.KindSurfaceWind:
			found = true
			if c.SurfaceWind != nil {
				pr.issues.Add(conversion.IssueSyntax, "More than one surface wind in %s: '%s'", rules.name, tok.Text)
				continue
			}
			c.SurfaceWind = wind(tok)

		case lexer.KindCAVOK:
			found = true
			c.CAVOK = true

		case lexer.KindHorizontalVisibility:
			found = true
			if tok.Has(lexer.SlotDirection) && !rules.directionalVisibility {
				pr.issues.Add(conversion.IssueSyntax, "Directional horizontal visibility not allowed in %s: '%s'",
					rules.name, tok.Text)
				continue
			}
			if withCAVOK(pr, c, rules, "visibility", tok) {
				continue
			}
			if c.Visibility != nil {
				pr.issues.Add(conversion.IssueSyntax, "More than one horizontal visibility in %s: '%s'", rules.name, tok.Text)
				continue
			}
			c.Visibility = visibility(tok)

		case lexer.KindWeather:
			found = true
			if withCAVOK(pr, c, rules, "weather", tok) {
				continue
			}
			if c.NoSignificantWeather {
				if !conflict {
					pr.issues.Add(conversion.IssueLogical, "Cannot have both NSW and weather in the same %s", rules.name)
					conflict = true
				}
				continue
			}
			c.Weather = append(c.Weather, tok.Str(lexer.SlotValue))

		case lexer.KindNoSignificantWeather:
			found = true
			if !rules.allowNSW {
				pr.issues.Add(conversion.IssueSyntax, "NSW not allowed in %s", rules.name)
				return i, found
			}
			if len(c.Weather) > 0 {
				if !conflict {
					pr.issues.Add(conversion.IssueLogical, "Cannot have both NSW and weather in the same %s", rules.name)
					conflict = true
				}
				continue
			}
			c.NoSignificantWeather = true

		case lexer.KindCloud:
			found = true
			if withCAVOK(pr, c, rules, "cloud", tok) {
				continue
			}
			if c.Clouds == nil {
				c.Clouds = &model.Clouds{}
			}
			addCloud(c.Clouds, tok)
		}
	}
	return part.Len(), found
}

// withCAVOK reports an element given together with CAVOK, which already
// stands for it. It returns true when the token must not be used.
func withCAVOK(pr *prepared, c *model.Conditions, rules conditionRules, element string, tok *lexer.Token) bool {
	if !c.CAVOK {
		return false
	}
	pr.issues.Add(conversion.IssueLogical, "CAVOK cannot be combined with %s in %s: '%s'", element, rules.name, tok.Text)
	return true
}

func operator(s string) model.Operator {
	return model.Operator(s)
}

func wind(tok *lexer.Token) *model.Wind {
	w := &model.Wind{
		MeanOperator: operator(tok.Str(lexer.SlotOperator)),
		GustOperator: operator(tok.Str(lexer.SlotOperator2)),
		Unit:         tok.Str(lexer.SlotUnit),
	}
	if dir, ok := tok.Int(lexer.SlotDirection); ok {
		w.Direction = dir
	} else {
		w.Variable = true
	}
	w.MeanSpeed, _ = tok.Int(lexer.SlotValue)
	if gust, ok := tok.Int(lexer.SlotValue2); ok {
		w.Gust = &gust
	}
	return w
}

func visibility(tok *lexer.Token) *model.Visibility {
	v := &model.Visibility{
		Operator:  operator(tok.Str(lexer.SlotOperator)),
		Direction: tok.Str(lexer.SlotDirection),
	}
	v.Distance, _ = tok.Int(lexer.SlotValue)
	return v
}

// addCloud adds one cloud token. Heights are given in hundreds of feet.
func addCloud(c *model.Clouds, tok *lexer.Token) {
	height, hasHeight := tok.Int(lexer.SlotValue)
	switch tok.Str(lexer.SlotType) {
	case "NSC":
		c.NoSignificantCloud = true
	case "NCD":
		c.NoCloudDetected = true
	case "SKC":
		c.SkyClear = true
	case "VV":
		if hasHeight {
			ft := height * 100
			c.VerticalVisibility = &ft
		} else {
			c.VerticalVisibilityMissing = true
		}
	default:
		layer := model.CloudLayer{
			Cover: tok.Str(lexer.SlotCover),
			Type:  tok.Str(lexer.SlotCloudType),
		}
		if hasHeight {
			ft := height * 100
			layer.Height = &ft
		}
		c.Layers = append(c.Layers, layer)
	}
}
