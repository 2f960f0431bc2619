package source

import (
	"newswatch/internal/config"
)

// BuiltinSources are the bundled source profiles, used when the config file
// defines none. Selectors track each site's current markup; a site redesign
// means updating the profile here or overriding it in the config file, not
// touching pipeline code.
func BuiltinSources() []config.SourceConfig {
	return []config.SourceConfig{
		{
			Name:    "naver",
			Adapter: "css",
			URLs: []string{
				"https://news.naver.com/section/100",
				"https://news.naver.com/section/101",
				"https://news.naver.com/section/103",
				"https://news.naver.com/section/104",
				"https://news.naver.com/section/105",
				"https://news.naver.com/breakingnews/section/104/231",
				"https://news.naver.com/breakingnews/section/104/232",
				"https://news.naver.com/breakingnews/section/104/233",
				"https://news.naver.com/breakingnews/section/104/234",
				"https://news.naver.com/breakingnews/section/104/322",
			},
			List: config.ListRules{
				Item:  "div.section_latest_article ul li",
				Title: config.Rule{Selector: "div.sa_text a strong"},
				Link:  config.Rule{Selector: "div.sa_text a", Attr: "href"},
			},
			Detail: config.DetailRules{
				Time:    config.Rule{Selector: `span[class*="ARTICLE_DATE_TIME"]`, Attr: "data-date-time"},
				Summary: config.Rule{Selector: ".media_end_summary", Attr: "html"},
				Img:     config.Rule{Selector: "img#img1", Attr: "data-src"},
			},
		},
		{
			Name:    "daum",
			Adapter: "css",
			Fetcher: "browser",
			URLs: []string{
				"https://news.daum.net/global",
			},
			List: config.ListRules{
				Item:  ".list_newsheadline2 .item_newsheadline2, .list_newsbasic .item_newsbasic",
				Title: config.Rule{Selector: ".tit_txt"},
				Link:  config.Rule{Attr: "href"},
				Time:  config.Rule{Selector: "span.txt_info:last-of-type"},
			},
			Detail: config.DetailRules{
				Summary: config.Rule{Selector: "strong.summary_view", Attr: "html"},
				Img:     config.Rule{Selector: `meta[property="og:image"]`, Attr: "content"},
			},
		},
		{
			Name:    "yna",
			Adapter: "css",
			URLs: []string{
				"https://www.yna.co.kr/international/all",
			},
			PageTemplate: "https://www.yna.co.kr/international/all/%d",
			Pages:        3,
			List: config.ListRules{
				Item:  "ul.list01 li",
				Title: config.Rule{Selector: "span.title01"},
				Link:  config.Rule{Selector: "a.tit-news", Attr: "href"},
				Time:  config.Rule{Selector: "span.txt-time"},
				Summary: config.Rule{
					Selector: "p.lead",
				},
				Img: config.Rule{Selector: "img", Attr: "src"},
			},
		},
		{
			Name:    "gukje",
			Adapter: "css",
			URLs: []string{
				"https://www.gukjenews.com/news/articleList.html?sc_section_code=S1N1&view_type=sm",
				"https://www.gukjenews.com/news/articleList.html?sc_section_code=S1N3&view_type=sm",
				"https://www.gukjenews.com/news/articleList.html?sc_section_code=S1N6&view_type=sm",
			},
			List: config.ListRules{
				Item:  "section#section-list ul li",
				Title: config.Rule{Selector: "h4.titles a"},
				Link:  config.Rule{Selector: "h4.titles a", Attr: "href"},
				Time:  config.Rule{Selector: "span.byline em:nth-of-type(3)"},
				Img:   config.Rule{Selector: "img", Attr: "src"},
			},
		},
		{
			Name:    "skydaily",
			Adapter: "css",
			URLs: []string{
				"https://www.skyedaily.com/news/news_list.html",
			},
			List: config.ListRules{
				Item:  "div.picarticle",
				Title: config.Rule{Selector: "a"},
				Link:  config.Rule{Selector: "a", Attr: "href"},
				Img:   config.Rule{Selector: "img", Attr: "src"},
			},
			Detail: config.DetailRules{
				Summary: config.Rule{Selector: "div.article_txt", Attr: "html"},
			},
		},
		{
			Name:    "voa",
			Adapter: "xpath",
			URLs: []string{
				"https://www.voakorea.com/z/2767",
			},
			List: config.ListRules{
				Item:  `//div[contains(@class,"media-block")]`,
				Title: config.Rule{Selector: `.//h4[contains(@class,"media-block__title")]`},
				Link:  config.Rule{Selector: `.//a`, Attr: "href"},
				Time:  config.Rule{Selector: `.//span[@class="date"]`},
				Img:   config.Rule{Selector: `.//img`, Attr: "src"},
			},
		},
	}
}

// FindSource returns the profile with the given name from the list, or false.
func FindSource(sources []config.SourceConfig, name string) (config.SourceConfig, bool) {
	for _, s := range sources {
		if s.Name == name {
			return s, true
		}
	}
	return config.SourceConfig{}, false
}
