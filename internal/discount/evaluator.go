package discount

// Evaluate prices a cart snapshot against the active rule table. It is a pure
// function: the same lines and rules always produce the same quote.
//
// Per-line promotional discount is derived from the cost basis reference:
// the promotion is already folded into the unit price by the catalog, so the
// line discount percentage is recovered as 100*(cost-price)/cost whenever the
// cost basis is positive. A price above the cost basis records the negative
// value; a line without a cost basis records zero.
//
// The order-level volume discount picks the active rule with the largest
// minimum_amount not exceeding the gross sum.
func Evaluate(lines []LineInput, rules []Rule) Quote {
	q := Quote{Lines: make([]LineQuote, 0, len(lines))}

	for _, in := range lines {
		lq := LineQuote{
			ProductID:          in.ProductID,
			Quantity:           in.Quantity,
			EffectiveUnitPrice: in.UnitPrice,
		}

		cost := in.UnitPrice
		if in.CostBasis != nil {
			cost = *in.CostBasis
		}
		lq.CostBasis = cost

		if cost > 0 {
			lq.DiscountPct = 100 * (cost - in.UnitPrice) / cost
			lq.DiscountAmount = (cost - in.UnitPrice) * float64(in.Quantity)
		}

		lq.Subtotal = in.UnitPrice * float64(in.Quantity)
		q.Gross += lq.Subtotal
		q.Lines = append(q.Lines, lq)
	}

	if rule := SelectRule(rules, q.Gross); rule != nil {
		id := rule.ID
		q.RuleID = &id
		q.VolumePct = rule.Percentage
		q.VolumeAmount = q.Gross * rule.Percentage / 100
	}

	q.Total = q.Gross - q.VolumeAmount
	return q
}

// SelectRule returns the qualifying active rule with the largest minimum
// amount, or nil when none qualifies.
func SelectRule(rules []Rule, gross float64) *Rule {
	var best *Rule
	for i := range rules {
		r := &rules[i]
		if !r.Active || r.MinimumAmount > gross {
			continue
		}
		if best == nil || r.MinimumAmount > best.MinimumAmount {
			best = r
		}
	}
	return best
}
