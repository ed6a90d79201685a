package service

import "strings"

// BuyerResolver 订单号→买家
type BuyerResolver func(orderNo string) string

// LevelResolver 买家→AQL水平
type LevelResolver func(buyer string) float64

// BuyerFromOrderNo 按MO号子串判买家
// "COM"比"CO"更具体，必须先判，否则MWW全被识别成Costco。
func BuyerFromOrderNo(orderNo string) string {
	if orderNo == "" {
		return "Other"
	}
	if strings.Contains(orderNo, "COM") {
		return "MWW"
	}
	if strings.Contains(orderNo, "CO") {
		return "Costco"
	}
	if strings.Contains(orderNo, "AR") {
		return "Aritzia"
	}
	if strings.Contains(orderNo, "RT") {
		return "Reitmans"
	}
	if strings.Contains(orderNo, "AF") {
		return "ANF"
	}
	if strings.Contains(orderNo, "NT") {
		return "STORI"
	}
	if strings.Contains(orderNo, "YMCMH") || strings.Contains(orderNo, "YMCMT") {
		return "Elite"
	}
	return "Other"
}

// AQLLevelForBuyer 各买家约定的AQL水平，未约定按1.0
func AQLLevelForBuyer(buyer string) float64 {
	if buyer == "" {
		return 1.0
	}
	upper := strings.ToUpper(buyer)

	switch {
	case strings.Contains(upper, "MWW"):
		return 2.5
	case strings.Contains(upper, "REITMANS"):
		return 4.0
	case strings.Contains(upper, "ARITZIA"):
		return 1.5
	case strings.Contains(upper, "A & F"),
		strings.Contains(upper, "A&F"),
		strings.Contains(upper, "ANF"):
		return 1.5
	}
	return 1.0
}
