package store

import (
	"time"

	"github.com/zero-void/site-backend/models"
)

// seedPosts is the built-in post set used to populate local-only mode the
// first time no snapshot exists. Content is raw markdown; read-time is derived
// like any other post.
func seedPosts() []models.Post {
	entries := []struct {
		id       string
		title    string
		excerpt  string
		content  string
		category string
		featured bool
		date     string
	}{
		{
			id:       "0",
			title:    "Why Zero?",
			excerpt:  "A personal story of loss, discovery, and finding strength in the void. How a random blog from 2014 became my lifeline during COVID.",
			category: "PERSONAL",
			featured: true,
			date:     "2024-12-27",
			content: `During COVID, I was with my parents and my sister. We had a tough time, like everyone else. Sitting in a hospital waiting hall, scrolling for vaccine news, I found a random blog from 2014 on a random WordPress site. It said "Zero Infinity" or "Zero Void". It felt like something.

## The Blog That Changed Everything

That blog explained, with reference to Sanskrit and the old Vedas, that zero means **sunya**. And the same word, paradoxically, means universe, which is infinite energy. You are nothing and you are everything.

At the end of the blog it said: **"It is neither void nor universe. It is a prospect to what we are looking at."**

## Why I Call Myself Zero

The reason behind calling myself Zero is that it gives me more space to evolve, experiment, feel, progress. When I feel I know nothing, that gives me a sense of lightness, and room for more learnings, more failures, more progress.

**It is not by lack of value or lack of confidence. It means perspective.**

## Beyond Social Tags

Maybe we are student, founder, working professional. These are social tags that limit you. Being Zero means going beyond them.

**Every day is so precious. Every day is a new year. Every day is a new life.**`,
		},
		{
			id:       "1",
			title:    "Why Middle India Will Birth the Next Unicorn",
			excerpt:  "The narrative of Indian startups is being rewritten. Not in Bangalore or Mumbai, but in places like Deoria, Raipur, and Ranchi.",
			category: "ECOSYSTEM",
			featured: true,
			date:     "2024-12-15",
			content: `The narrative of Indian startups is being rewritten. Not in Bangalore or Mumbai, but in places like Deoria, Raipur, and Ranchi.

## The Untold Story

Having traveled across 20+ cities in Middle India, I've seen something remarkable. Founders in tier-2 and tier-3 cities aren't just surviving, they're thriving with a different playbook.

### Lower Burn, Higher Grit

A startup in Raipur operates on 1/10th the burn rate of a Bangalore startup, yet serves the same market size. They're not playing the VC game, they're building real, profitable businesses.

## The Pattern I See

Every month I meet founders who would be considered "uninvestable" by traditional metrics. Yet they're building businesses that:

- Serve millions of users
- Are profitable from year one
- Solve problems the metros don't even know exist

The next unicorn won't come from a WeWork in Mumbai. It'll come from a small office in a city you've never heard of.

*This is why I do what I do. This is why EvolveX exists.*`,
		},
		{
			id:       "2",
			title:    "Building in Public: The EvolveX Journey",
			excerpt:  "From zero to 100+ startups. Lessons learned from building a founder-first community across Bharat.",
			category: "STARTUP",
			featured: false,
			date:     "2024-11-20",
			content: `When I started EvolveX in 2019, I had no playbook. No funding. No connections. Just a belief that founders outside metros deserved better support.

## Year One: The Hustle

The first year was brutal. I cold-emailed 500+ founders, got 20 responses, and 5 showed up to our first event. Those 5 became our core community.

### What Worked:
- **Authenticity over polish** - our events were raw but real
- **Value before ask** - we gave before we asked anything in return
- **Consistency** - we showed up every single week

## What I've Learned

1. **Community > Network** - networks are transactional, communities are transformational.
2. **Patience compounds** - year 1 and year 5 look nothing alike.
3. **Your background is your superpower** - being from rural Telangana isn't a disadvantage.

The journey continues. And I'm documenting every step.`,
		},
		{
			id:       "3",
			title:    "The Train That Changed Everything",
			excerpt:  "8,000 kilometers. 15 days. 500+ founders. What Jagriti Yatra taught me about India's entrepreneurial spirit.",
			category: "JOURNEY",
			featured: false,
			date:     "2023-12-10",
			content: `Picture this: a train carrying 500 aspiring entrepreneurs, stopping at 12 destinations across India, meeting role models who've built enterprises from nothing.

That's Jagriti Yatra. And it changed everything for me.

## The Places That Shaped Me

### Deoria, UP
A town I'd never heard of, producing founders solving real problems for rural India.

### Ranchi
Young founders building fintech for the unbanked. No VC funding. Just grit and customer obsession.

## What I Brought Back

1. **Humility** - my problems are small compared to what some founders overcome
2. **Network** - 500 connections who actually get it
3. **Purpose** - a clear mission to serve Middle India founders

*The train keeps moving. And so do we.*`,
		},
		{
			id:       "4",
			title:    "Flow State: The Science of Being Zero",
			excerpt:  "When you enter flow, your mind quiets the inner narrator. Neuroscience meets ancient philosophy.",
			category: "PHILOSOPHY",
			featured: true,
			date:     "2024-12-20",
			content: `When you enter flow, your mind quiets the inner narrator. Subjectively, it feels like becoming zero: less ego-noise, fewer distractions, a clean channel for execution.

## The Default Mode Network

Your brain has a "default mode network" that activates when you're not focused on the outside world. When you enter flow, it quiets down. You stop thinking about yourself and become one with the task.

### In Flow:
- Time disappears
- Self-consciousness fades
- Action and awareness merge

## How to Access It

1. **Clear goals** - know exactly what you're trying to achieve
2. **Immediate feedback** - see the results of your actions instantly
3. **Challenge-skill balance** - the task should stretch you, but not break you

The harder you try to achieve flow, the more it eludes you. You have to let go of trying. You have to become zero.

*Less self-talk. More signal.*`,
		},
	}

	posts := make([]models.Post, 0, len(entries))
	for _, e := range entries {
		created, _ := time.Parse("2006-01-02", e.date)
		posts = append(posts, models.Post{
			ID:         e.id,
			Title:      e.title,
			Slug:       models.Slugify(e.title),
			Excerpt:    e.excerpt,
			Content:    e.content,
			Category:   e.category,
			Published:  true,
			Featured:   e.featured,
			Visibility: models.VisibilityPublic,
			ReadTime:   models.EstimateReadTime(e.content),
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}
	return posts
}
