package services

// Curated per-category items served when the search backend yields
// nothing, so the Discover page is never blank.
var curatedFeed = map[string][]DiscoverItem{
	"top": {
		{
			Title:   "Breaking: Major Tech Companies Announce New AI Partnership",
			Content: "Leading technology companies have announced a groundbreaking partnership to advance artificial intelligence research and development.",
			URL:     "https://techcrunch.com/ai-partnership",
		},
		{
			Title:   "Global Markets Surge as Economic Data Shows Strong Growth",
			Content: "Stock markets worldwide are experiencing significant gains following the release of positive economic indicators.",
			URL:     "https://reuters.com/markets-surge",
		},
		{
			Title:   "Climate Summit Reaches Historic Agreement on Carbon Reduction",
			Content: "World leaders have reached a consensus on new measures to combat climate change at the international summit.",
			URL:     "https://bbc.com/climate-agreement",
		},
	},
	"technology": {
		{
			Title:   "Revolutionary Quantum Computing Breakthrough Achieved",
			Content: "Scientists have made a significant advancement in quantum computing that could transform the industry.",
			URL:     "https://wired.com/quantum-breakthrough",
		},
		{
			Title:   "New Programming Language Promises 10x Performance Boost",
			Content: "Developers are excited about a new programming language that offers unprecedented performance improvements.",
			URL:     "https://arstechnica.com/new-language",
		},
		{
			Title:   "AI Model Achieves Human-Level Performance in Complex Tasks",
			Content: "A new artificial intelligence model has demonstrated capabilities that match human performance in various domains.",
			URL:     "https://techcrunch.com/ai-performance",
		},
	},
	"science": {
		{
			Title:   "Groundbreaking Cancer Treatment Shows 95% Success Rate",
			Content: "Researchers have developed a new cancer treatment that shows remarkable success in clinical trials.",
			URL:     "https://nature.com/cancer-treatment",
		},
		{
			Title:   "New Exoplanet Discovery Could Harbor Life",
			Content: "Astronomers have discovered a potentially habitable exoplanet in a nearby star system.",
			URL:     "https://scientificamerican.com/exoplanet",
		},
		{
			Title:   "Gene Therapy Restores Sight to Blind Patients",
			Content: "A revolutionary gene therapy treatment has successfully restored vision to patients with hereditary blindness.",
			URL:     "https://newscientist.com/gene-therapy",
		},
	},
	"business": {
		{
			Title:   "Startup Valued at $10B After Latest Funding Round",
			Content: "A technology startup has reached unicorn status with a massive valuation following its Series C funding.",
			URL:     "https://forbes.com/startup-valuation",
		},
		{
			Title:   "Major Corporate Merger Creates Industry Giant",
			Content: "Two leading companies have announced a merger that will create one of the largest entities in the sector.",
			URL:     "https://bloomberg.com/corporate-merger",
		},
		{
			Title:   "Economic Policy Changes Impact Global Trade",
			Content: "New economic policies are expected to significantly influence international trade relationships.",
			URL:     "https://wsj.com/economic-policy",
		},
	},
	"health": {
		{
			Title:   "New Study Reveals Key to Longevity",
			Content: "Researchers have identified crucial factors that contribute to increased lifespan and healthy aging.",
			URL:     "https://healthline.com/longevity-study",
		},
		{
			Title:   "Revolutionary Heart Surgery Technique Developed",
			Content: "Medical professionals have pioneered a new surgical technique that reduces recovery time by 50%.",
			URL:     "https://mayoclinic.org/heart-surgery",
		},
		{
			Title:   "Mental Health App Shows Promising Results in Clinical Trial",
			Content: "A new mobile application for mental health support has demonstrated significant effectiveness in treating anxiety.",
			URL:     "https://webmd.com/mental-health-app",
		},
	},
}

func curatedItems(categoryID string) []DiscoverItem {
	if items, ok := curatedFeed[categoryID]; ok {
		return items
	}
	return curatedFeed["top"]
}
