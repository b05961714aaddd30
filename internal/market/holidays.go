package market

// Statutory market holidays for the A-share exchanges, 2024-2026.
// Weekend days inside a holiday stretch are listed too; the weekend rule
// would exclude them anyway, but keeping the stretch contiguous makes
// the table auditable against the exchange notices.
var cnHolidays = map[string]string{
	// 2024 元旦
	"2024-01-01": "元旦",

	// 2024 春节
	"2024-02-09": "春节",
	"2024-02-10": "春节",
	"2024-02-11": "春节",
	"2024-02-12": "春节",
	"2024-02-13": "春节",
	"2024-02-14": "春节",
	"2024-02-15": "春节",
	"2024-02-16": "春节",
	"2024-02-17": "春节",

	// 2024 清明节
	"2024-04-04": "清明节",
	"2024-04-05": "清明节",
	"2024-04-06": "清明节",

	// 2024 劳动节
	"2024-05-01": "劳动节",
	"2024-05-02": "劳动节",
	"2024-05-03": "劳动节",
	"2024-05-04": "劳动节",
	"2024-05-05": "劳动节",

	// 2024 端午节
	"2024-06-10": "端午节",

	// 2024 中秋节
	"2024-09-15": "中秋节",
	"2024-09-16": "中秋节",
	"2024-09-17": "中秋节",

	// 2024 国庆节
	"2024-10-01": "国庆节",
	"2024-10-02": "国庆节",
	"2024-10-03": "国庆节",
	"2024-10-04": "国庆节",
	"2024-10-05": "国庆节",
	"2024-10-06": "国庆节",
	"2024-10-07": "国庆节",

	// 2025 元旦
	"2025-01-01": "元旦",

	// 2025 春节
	"2025-01-28": "春节",
	"2025-01-29": "春节",
	"2025-01-30": "春节",
	"2025-01-31": "春节",
	"2025-02-01": "春节",
	"2025-02-02": "春节",
	"2025-02-03": "春节",
	"2025-02-04": "春节",

	// 2025 清明节
	"2025-04-04": "清明节",
	"2025-04-05": "清明节",
	"2025-04-06": "清明节",

	// 2025 劳动节
	"2025-05-01": "劳动节",
	"2025-05-02": "劳动节",
	"2025-05-03": "劳动节",
	"2025-05-04": "劳动节",
	"2025-05-05": "劳动节",

	// 2025 端午节
	"2025-05-31": "端午节",
	"2025-06-01": "端午节",
	"2025-06-02": "端午节",

	// 2025 国庆节 + 中秋节
	"2025-10-01": "国庆节",
	"2025-10-02": "国庆节",
	"2025-10-03": "国庆节",
	"2025-10-04": "国庆节",
	"2025-10-05": "国庆节",
	"2025-10-06": "中秋节",
	"2025-10-07": "国庆节",
	"2025-10-08": "国庆节",

	// 2026 元旦
	"2026-01-01": "元旦",
	"2026-01-02": "元旦",
	"2026-01-03": "元旦",

	// 2026 春节
	"2026-02-15": "春节",
	"2026-02-16": "春节",
	"2026-02-17": "春节",
	"2026-02-18": "春节",
	"2026-02-19": "春节",
	"2026-02-20": "春节",
	"2026-02-21": "春节",
	"2026-02-22": "春节",
	"2026-02-23": "春节",

	// 2026 清明节
	"2026-04-04": "清明节",
	"2026-04-05": "清明节",
	"2026-04-06": "清明节",

	// 2026 劳动节
	"2026-05-01": "劳动节",
	"2026-05-02": "劳动节",
	"2026-05-03": "劳动节",
	"2026-05-04": "劳动节",
	"2026-05-05": "劳动节",

	// 2026 端午节
	"2026-06-19": "端午节",
	"2026-06-20": "端午节",
	"2026-06-21": "端午节",

	// 2026 中秋节
	"2026-09-25": "中秋节",
	"2026-09-26": "中秋节",
	"2026-09-27": "中秋节",

	// 2026 国庆节
	"2026-10-01": "国庆节",
	"2026-10-02": "国庆节",
	"2026-10-03": "国庆节",
	"2026-10-04": "国庆节",
	"2026-10-05": "国庆节",
	"2026-10-06": "国庆节",
	"2026-10-07": "国庆节",
}

// Weekend days declared as working days by the State Council (调休).
// The exchange stays closed on these; kept so the status endpoint can
// name the reason precisely.
var cnMakeupWorkdays = map[string]bool{
	"2024-02-04": true,
	"2024-02-18": true,
	"2024-04-07": true,
	"2024-04-28": true,
	"2024-05-11": true,
	"2024-09-14": true,
	"2024-09-29": true,
	"2024-10-12": true,

	"2025-01-26": true,
	"2025-02-08": true,
	"2025-04-27": true,
	"2025-09-28": true,
	"2025-10-11": true,

	"2026-02-14": true,
	"2026-02-28": true,
	"2026-05-09": true,
	"2026-10-10": true,
}
