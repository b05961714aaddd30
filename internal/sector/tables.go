package sector

// staticEntry is one curated fund-to-sector mapping
type staticEntry struct {
	Code   string
	Name   string
	Reason string
}

// fundSectorMap is the hand-maintained mapping of well-known funds to
// their dominant sector, based on disclosed holdings. Reviewed against
// quarterly reports; update when a fund's mandate visibly shifts.
var fundSectorMap = map[string]staticEntry{
	// 白酒/食品饮料
	"161725": {"BK0438", "食品饮料", "重仓白酒（茅台、汾酒、五粮液等）"},
	"005827": {"BK0438", "食品饮料", "重仓白酒龙头"},
	"110022": {"BK0438", "食品饮料", "消费行业龙头"},
	"001632": {"BK0438", "食品饮料", "食品饮料ETF"},
	"000248": {"BK0438", "食品饮料", "消费行业ETF"},

	// 医药/医疗
	"003096": {"BK1040", "中药", "医疗健康主题"},
	"007994": {"BK1044", "生物制品", "生物医药指数"},
	"000001": {"BK0465", "化学制药", "医药健康混合"},

	// 新能源/电池
	"002190": {"BK1033", "电池", "新能源主题"},

	// 金融
	"110003": {"BK0736", "银行", "上证50指数"},

	// 科技
	"007300": {"BK1044", "生物制品", "科技主题"},
}

// nameKeyword maps a substring of a fund's display name to a sector
type nameKeyword struct {
	Keyword    string
	SectorCode string
	SectorName string
}

// nameKeywords is the fund-name fallback table. Matching happens in
// descending keyword length so "新能源汽" beats "汽车" beats "车".
var nameKeywords = []nameKeyword{
	// 消费/白酒
	{"白酒", "BK0438", "食品饮料"},
	{"消费", "BK0438", "食品饮料"},
	{"食品", "BK0438", "食品饮料"},
	{"饮料", "BK0438", "食品饮料"},
	{"酒", "BK0438", "食品饮料"},

	// 医药/医疗
	{"医疗", "BK1040", "中药"},
	{"医药", "BK1040", "中药"},
	{"生物", "BK1044", "生物制品"},
	{"疫苗", "BK1044", "生物制品"},
	{"健康", "BK1040", "中药"},

	// 新能源
	{"新能源汽", "BK1016", "汽车服务"},
	{"新能源", "BK1033", "电池"},
	{"电池", "BK1033", "电池"},
	{"锂电", "BK1033", "电池"},
	{"光伏", "BK0428", "电力行业"},
	{"储能", "BK1033", "电池"},
	{"能源", "BK0437", "煤炭行业"},

	// 科技
	{"芯片", "BK1036", "半导体"},
	{"半导体", "BK1036", "半导体"},
	{"科技", "BK1036", "半导体"},
	{"电子", "BK0459", "电子元件"},
	{"软件", "BK0737", "软件开发"},
	{"互联网", "BK0481", "互联网服务"},
	{"传媒", "BK0485", "文化传媒"},
	{"游戏", "BK1046", "游戏"},
	{"通信", "BK0448", "通信设备"},
	{"5G", "BK0448", "通信设备"},

	// 金融
	{"银行", "BK0736", "银行"},
	{"证券", "BK0473", "证券"},
	{"券商", "BK0473", "证券"},
	{"保险", "BK0474", "保险"},
	{"金融", "BK0736", "银行"},

	// 地产/基建
	{"地产", "BK0735", "房地产"},
	{"房地产", "BK0735", "房地产"},
	{"建筑", "BK0726", "工程咨询服务"},
	{"建材", "BK0476", "装修建材"},
	{"水泥", "BK0424", "水泥建材"},
	{"机械", "BK0739", "工程机械"},

	// 周期/资源
	{"煤炭", "BK0437", "煤炭行业"},
	{"有色", "BK0478", "有色金属"},
	{"黄金", "BK0732", "贵金属"},
	{"化工", "BK0731", "化学制品"},
	{"化学", "BK0731", "化学制品"},
	{"石油", "BK0464", "石油行业"},
	{"钢铁", "BK0479", "钢铁行业"},
	{"造纸", "BK0470", "造纸印刷"},

	// 农业
	{"农业", "BK0433", "农牧饲渔"},
	{"农牧", "BK0433", "农牧饲渔"},
	{"养殖", "BK0433", "农牧饲渔"},
	{"畜牧", "BK0433", "农牧饲渔"},
	{"饲料", "BK0433", "农牧饲渔"},

	// 汽车
	{"汽车", "BK1016", "汽车服务"},
	{"整车", "BK1016", "汽车服务"},
	{"零部件", "BK1016", "汽车服务"},

	// 其他
	{"军工", "BK0490", "航天航空"},
	{"航天", "BK0490", "航天航空"},
	{"航空", "BK0420", "航空机场"},
	{"机场", "BK0420", "航空机场"},
	{"港口", "BK0450", "航运港口"},
	{"物流", "BK0422", "物流行业"},
	{"铁路", "BK0421", "铁路公路"},
	{"公路", "BK0421", "铁路公路"},
	{"贸易", "BK0484", "贸易行业"},
	{"商业", "BK0482", "商业百货"},
	{"零售", "BK0482", "商业百货"},
	{"旅游", "BK0485", "旅游酒店"},
	{"酒店", "BK0485", "旅游酒店"},
	{"美容", "BK1035", "美容护理"},
	{"电力", "BK0428", "电力行业"},
	{"燃气", "BK1028", "燃气"},
	{"水务", "BK0427", "公用事业"},
	{"环保", "BK0728", "环保行业"},
	{"教育", "BK0740", "教育"},
}

// candidateSector is one sector the holdings-based scorer knows about:
// representative stock codes score full weight, name keywords half.
type candidateSector struct {
	Code     string
	Name     string
	Stocks   []string
	Keywords []string
}

// candidateSectors drives holdings-based classification. Slice order is
// the tie-break: an earlier entry wins an equal score.
var candidateSectors = []candidateSector{
	{
		Code:     "BK0438",
		Name:     "食品饮料",
		Stocks:   []string{"600519", "000858", "002304", "600809", "000568", "600887"},
		Keywords: []string{"酒", "饮料", "食品", "乳业", "牧原", "温氏"},
	},
	{
		Code:     "BK1040",
		Name:     "中药",
		Stocks:   []string{"600276", "600196", "000538", "600332"},
		Keywords: []string{"医药", "医疗", "药业", "生物", "复星", "恒瑞"},
	},
	{
		Code:     "BK1033",
		Name:     "电池",
		Stocks:   []string{"300750", "002594", "601012", "600438"},
		Keywords: []string{"锂", "电池", "新能源", "光伏", "宁德", "比亚迪"},
	},
	{
		Code:     "BK1036",
		Name:     "半导体",
		Stocks:   []string{"688981", "603501", "002371"},
		Keywords: []string{"芯片", "半导体", "电子", "中芯", "韦尔"},
	},
	{
		Code:     "BK0736",
		Name:     "银行",
		Stocks:   []string{"600036", "000001", "601166"},
		Keywords: []string{"银行", "招商", "平安", "兴业"},
	},
	{
		Code:     "BK0473",
		Name:     "证券",
		Stocks:   []string{"600030", "601688", "300059"},
		Keywords: []string{"证券", "中信", "华泰", "东方财富"},
	},
}

// Default sector when nothing else matches
const (
	defaultSectorCode = "BK0438"
	defaultSectorName = "食品饮料"
)
