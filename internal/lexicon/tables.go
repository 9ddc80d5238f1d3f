package lexicon

// defaultSynonyms maps Indonesian and English place words to Google Places
// type names.
var defaultSynonyms = map[string]string{
	"restaurant":         "restaurant",
	"restoran":           "restaurant",
	"resto":              "restaurant",
	"rumah makan":        "restaurant",
	"warung":             "restaurant",
	"warung makan":       "restaurant",
	"tempat makan":       "restaurant",
	"eatery":             "restaurant",
	"cafe":               "cafe",
	"café":               "cafe",
	"kafe":               "cafe",
	"coffee":             "cafe",
	"coffee shop":        "cafe",
	"kedai kopi":         "cafe",
	"warkop":             "cafe",
	"bakery":             "bakery",
	"toko roti":          "bakery",
	"bar":                "bar",
	"pub":                "bar",
	"hotel":              "lodging",
	"penginapan":         "lodging",
	"hostel":             "lodging",
	"losmen":             "lodging",
	"villa":              "lodging",
	"hospital":           "hospital",
	"rumah sakit":        "hospital",
	"klinik":             "doctor",
	"clinic":             "doctor",
	"dokter":             "doctor",
	"pharmacy":           "pharmacy",
	"apotek":             "pharmacy",
	"apotik":             "pharmacy",
	"atm":                "atm",
	"bank":               "bank",
	"gas station":        "gas_station",
	"spbu":               "gas_station",
	"pom bensin":         "gas_station",
	"supermarket":        "supermarket",
	"swalayan":           "supermarket",
	"minimarket":         "convenience_store",
	"mall":               "shopping_mall",
	"mal":                "shopping_mall",
	"pusat perbelanjaan": "shopping_mall",
	"park":               "park",
	"taman":              "park",
	"museum":             "museum",
	"mosque":             "mosque",
	"masjid":             "mosque",
	"church":             "church",
	"gereja":             "church",
	"temple":             "hindu_temple",
	"pura":               "hindu_temple",
	"school":             "school",
	"sekolah":            "school",
	"university":         "university",
	"kampus":             "university",
	"gym":                "gym",
	"tempat gym":         "gym",
	"fitness":            "gym",
	"salon":              "beauty_salon",
	"barbershop":         "hair_care",
	"tukang cukur":       "hair_care",
	"bengkel":            "car_repair",
	"parkir":             "parking",
	"parking":            "parking",
	"bioskop":            "movie_theater",
	"cinema":             "movie_theater",
	"wisata":             "tourist_attraction",
	"tempat wisata":      "tourist_attraction",
	"attraction":         "tourist_attraction",
	"pantai":             "beach",
	"beach":              "beach",
	"laundry":            "laundry",
	"police":             "police",
	"kantor polisi":      "police",
	"post office":        "post_office",
	"kantor pos":         "post_office",
	"stasiun":            "train_station",
	"train station":      "train_station",
	"bandara":            "airport",
	"airport":            "airport",
}

var defaultLocations = []string{
	"jakarta",
	"jakarta selatan",
	"jakarta pusat",
	"jakarta barat",
	"jakarta timur",
	"jakarta utara",
	"south jakarta",
	"central jakarta",
	"bandung",
	"surabaya",
	"yogyakarta",
	"jogja",
	"jogjakarta",
	"semarang",
	"solo",
	"surakarta",
	"malang",
	"bogor",
	"depok",
	"tangerang",
	"bekasi",
	"bali",
	"denpasar",
	"ubud",
	"kuta",
	"seminyak",
	"canggu",
	"medan",
	"makassar",
	"palembang",
	"batam",
	"pekanbaru",
	"padang",
	"balikpapan",
	"manado",
	"lombok",
	"singapore",
	"kuala lumpur",
	"bangkok",
}

var defaultStopWords = []string{
	"find", "show", "search", "where", "what", "which", "please", "can", "could",
	"i", "me", "the", "a", "an", "in", "near", "around", "best", "good", "top",
	"cari", "cariin", "carikan", "tolong", "minta", "mohon", "mau", "aku", "saya",
	"butuh", "yang", "untuk", "dong", "di", "dekat", "sekitar", "terdekat",
	"rekomendasi", "rekomendasikan", "ada", "apa", "mana", "tempat",
	"looking", "for", "any", "some", "with", "and", "or", "open", "now",
	"nearby", "cheap", "murah", "enak", "dan", "atau", "buka", "sekarang",
	"is", "are", "am", "was", "were", "be", "there", "here", "do", "does",
	"how", "who", "when", "you", "your", "my", "we", "us", "to", "of",
	"want", "need", "recommend", "ini", "itu", "dimana", "ke", "dari",
}
