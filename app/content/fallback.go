package content

import (
	"time"

	"folio/app/models"
)

var fallbackPosts = []models.Post{
	{
		Slug:    "getting-started-with-nextjs",
		Title:   "Getting Started with Next.js: A Modern React Framework",
		Excerpt: "Discover how Next.js revolutionizes React development with its powerful features like server-side rendering, automatic code splitting, and seamless deployment.",
		Content: models.MarkupContent(`<p>Next.js has become the go-to framework for React developers who want to build production-ready applications with minimal configuration. In this post, we'll explore what makes Next.js special and why you should consider it for your next project.</p>

<h2>What is Next.js?</h2>
<p>Next.js is a React framework that provides a complete solution for building web applications. It offers features like server-side rendering, static site generation, and automatic code splitting out of the box.</p>

<h2>Key Features</h2>
<p>Some of the standout features include:</p>
<ul>
  <li>Server-side rendering for better SEO</li>
  <li>Automatic code splitting for faster page loads</li>
  <li>Built-in CSS and Sass support</li>
  <li>API routes for backend functionality</li>
</ul>

<p>Whether you're building a simple blog or a complex web application, Next.js provides the tools you need to create fast, scalable, and SEO-friendly websites.</p>`),
		Date:      time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Published: true,
		Tags:      []string{},
		Source:    models.SourceFallback,
	},
	{
		Slug:    "the-art-of-minimalist-design",
		Title:   "The Art of Minimalist Design in Web Development",
		Excerpt: "Explore how minimalist design principles can create more effective and user-friendly web experiences through thoughtful use of whitespace, typography, and color.",
		Content: models.MarkupContent(`<p>Minimalist design isn't just about using less. It's about using what you need most effectively. In web development, this philosophy can lead to cleaner, faster, and more user-friendly experiences.</p>

<h2>Less is More</h2>
<p>The principle of "less is more" applies perfectly to web design. By removing unnecessary elements, we can focus the user's attention on what truly matters.</p>

<h2>Typography Matters</h2>
<p>Good typography is the foundation of minimalist design. Choose fonts that are readable and convey the right tone for your content.</p>

<h2>Whitespace as a Design Element</h2>
<p>Whitespace isn't empty space. It's a powerful design tool that can improve readability and create visual hierarchy.</p>

<p>Remember, minimalist design is about intentionality. Every element should have a purpose and contribute to the overall user experience.</p>`),
		Date:      time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		Published: true,
		Tags:      []string{},
		Source:    models.SourceFallback,
	},
}

// FallbackPosts returns the published demo posts, newest first. The result is
// a fresh copy on every call.
func FallbackPosts() []models.Post {
	posts := make([]models.Post, 0, len(fallbackPosts))
	for _, p := range fallbackPosts {
		if !p.Published {
			continue
		}
		p.Tags = append([]string{}, p.Tags...)
		posts = append(posts, p)
	}
	SortByDate(posts)
	return posts
}

// FallbackPost returns the published demo post with exactly the given slug.
func FallbackPost(slug string) (models.Post, bool) {
	for _, p := range FallbackPosts() {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.Post{}, false
}
