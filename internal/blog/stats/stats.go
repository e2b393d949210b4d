// Package stats computes aggregate figures over the whole blog list.
package stats

import "github.com/okovalenko/bloglist/internal/blog/domain"

type FavoriteBlog struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type AuthorBlogs struct {
	Author string `json:"author"`
	Blogs  int    `json:"blogs"`
}

type AuthorLikes struct {
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Summary struct {
	Blogs        int           `json:"blogs"`
	TotalLikes   int           `json:"total_likes"`
	FavoriteBlog *FavoriteBlog `json:"favorite_blog,omitempty"`
	MostBlogs    *AuthorBlogs  `json:"most_blogs,omitempty"`
	MostLikes    *AuthorLikes  `json:"most_likes,omitempty"`
}

func TotalLikes(blogs []domain.Blog) int {
	sum := 0
	for _, b := range blogs {
		sum += b.Likes
	}
	return sum
}

// Favorite returns the blog with the most likes, or nil for an empty list.
// Ties keep the earliest entry.
func Favorite(blogs []domain.Blog) *FavoriteBlog {
	if len(blogs) == 0 {
		return nil
	}

	fav := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > fav.Likes {
			fav = b
		}
	}

	return &FavoriteBlog{Title: fav.Title, Author: fav.Author, Likes: fav.Likes}
}

// MostBlogs returns the author with the largest number of blogs.
func MostBlogs(blogs []domain.Blog) *AuthorBlogs {
	if len(blogs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, b := range blogs {
		counts[b.Author]++
	}

	var top *AuthorBlogs
	for _, b := range blogs {
		n := counts[b.Author]
		if top == nil || n > top.Blogs {
			top = &AuthorBlogs{Author: b.Author, Blogs: n}
		}
	}

	return top
}

// MostLikes returns the author whose blogs have the largest combined likes.
func MostLikes(blogs []domain.Blog) *AuthorLikes {
	if len(blogs) == 0 {
		return nil
	}

	likes := make(map[string]int)
	for _, b := range blogs {
		likes[b.Author] += b.Likes
	}

	var top *AuthorLikes
	for _, b := range blogs {
		n := likes[b.Author]
		if top == nil || n > top.Likes {
			top = &AuthorLikes{Author: b.Author, Likes: n}
		}
	}

	return top
}

func Summarize(blogs []domain.Blog) Summary {
	return Summary{
		Blogs:        len(blogs),
		TotalLikes:   TotalLikes(blogs),
		FavoriteBlog: Favorite(blogs),
		MostBlogs:    MostBlogs(blogs),
		MostLikes:    MostLikes(blogs),
	}
}
