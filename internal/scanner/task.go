package scanner

import "robotfuzz/internal/templater"

// Task is one request of a run. ID is the 1-based position in the enumeration
// and stays attached to the task whatever order it completes in.
type Task struct {
	ID          int
	Payload     string
	Payload2    string
	HasPayload2 bool
	URL         string
}

// Display returns the payload column text.
func (t Task) Display() string {
	if t.HasPayload2 {
		return t.Payload2 + " | " + t.Payload
	}
	return t.Payload
}

// BuildTasks enumerates wordlist x wordlist2 (wordlist outer) when wordlist2 is
// non-nil, otherwise one task per wordlist entry.
func BuildTasks(template string, wordlist, wordlist2 []string) []Task {
	if wordlist2 == nil {
		tasks := make([]Task, 0, len(wordlist))
		for i, word := range wordlist {
			tasks = append(tasks, Task{
				ID:      i + 1,
				Payload: word,
				URL:     templater.Resolve(template, word, ""),
			})
		}
		return tasks
	}

	tasks := make([]Task, 0, len(wordlist)*len(wordlist2))
	for _, word := range wordlist {
		for _, word2 := range wordlist2 {
			tasks = append(tasks, Task{
				ID:          len(tasks) + 1,
				Payload:     word,
				Payload2:    word2,
				HasPayload2: true,
				URL:         templater.Resolve(template, word, word2),
			})
		}
	}
	return tasks
}

// BuildVhostTasks creates one task per candidate subdomain label.
func BuildVhostTasks(base string, words []string) []Task {
	tasks := make([]Task, 0, len(words))
	for i, word := range words {
		tasks = append(tasks, Task{
			ID:      i + 1,
			Payload: word,
			URL:     templater.VhostURL(base, word),
		})
	}
	return tasks
}

// TotalRequests is len(wordlist) * len(wordlist2), or len(wordlist) without a
// second wordlist.
func TotalRequests(wordlist, wordlist2 []string) int {
	if wordlist2 == nil {
		return len(wordlist)
	}
	return len(wordlist) * len(wordlist2)
}
