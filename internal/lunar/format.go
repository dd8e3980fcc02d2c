package lunar

var monthNames = [...]string{"",
	"正月", "二月", "三月", "四月", "五月", "六月",
	"七月", "八月", "九月", "十月", "冬月", "腊月",
}

var dayNames = [...]string{"",
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// FormatDate renders a lunar month/day in traditional notation, e.g. 八月十五
// for mid-autumn. Leap months carry a 闰 prefix. Out-of-range input returns
// the empty string.
func FormatDate(month, day int, leap bool) string {
	if month < 1 || month > 12 || day < 1 || day > 30 {
		return ""
	}
	name := monthNames[month]
	if leap {
		name = "闰" + name
	}
	return name + dayNames[day]
}
