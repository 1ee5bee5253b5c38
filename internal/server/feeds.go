package server

import (
	"net/http"
	"time"

	"github.com/gorilla/feeds"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/content"
	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/models"
)

// buildFeed aggregates published content across types, newest first. A store
// failure degrades to an empty feed; feeds never answer 5xx.
func (s *Server) buildFeed(r *http.Request) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "The Starr Conspiracy",
		Link:        &feeds.Link{Href: s.cfg.SiteURL},
		Description: "B2B marketing insight for companies that make work better.",
		Updated:     time.Now().UTC(),
	}

	docs, err := s.store.ListPublished(r.Context(), feedItemCap)
	if err != nil {
		s.logger.Error("feed listing failed, serving empty feed", "error", err)
		return feed
	}

	for i := range docs {
		doc := &docs[i]
		item := &feeds.Item{
			Title:       doc.Title,
			Link:        &feeds.Link{Href: s.cfg.SiteURL + "/" + string(doc.Type) + "/" + doc.Slug},
			Description: doc.Summary,
			Content:     content.Body(doc),
		}
		if doc.Published != nil {
			item.Created = *doc.Published
		}
		if doc.Type == models.TypeBlog && doc.Blog != nil {
			item.Author = &feeds.Author{Name: doc.Blog.Author}
		}
		feed.Items = append(feed.Items, item)
	}
	return feed
}

func (s *Server) handleFeedXML(w http.ResponseWriter, r *http.Request) {
	rss, err := s.buildFeed(r).ToRss()
	if err != nil {
		s.logger.Error("rss render failed", "error", err)
		rss = ""
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

func (s *Server) handleFeedJSON(w http.ResponseWriter, r *http.Request) {
	jsonFeed, err := s.buildFeed(r).ToJSON()
	if err != nil {
		s.logger.Error("json feed render failed", "error", err)
		jsonFeed = "{}"
	}
	w.Header().Set("Content-Type", "application/feed+json; charset=utf-8")
	w.Write([]byte(jsonFeed))
}
