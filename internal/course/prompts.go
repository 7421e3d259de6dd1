package course

import (
	"fmt"
	"strings"
)

const outlineSystemPrompt = "You are a great AI teacher and linguist, skilled at creating course outlines based on summarized knowledge materials."

const lessonSystemPrompt = "You are a great AI teacher and linguist, skilled at writing informative and easy-to-understand course scripts based on a given lesson topic and knowledge materials."

func outlineUserPrompt(summaries []string, lessonCount int, language string) string {
	return fmt.Sprintf(`Based on the summarized knowledge materials provided, carefully design a course outline.
Requirements: through learning this course, the learner should understand the key concepts below.
Key concepts: %s
Output the course outline as a JSON array and nothing else: no explanation, no markdown, no surrounding text.
Each element is a two-element array of strings: the lesson name and a one-sentence abstract introducing the knowledge it contains.
Example output format:
[["name of lesson 1","abstract of lesson 1"],["name of lesson 2","abstract of lesson 2"]]
Design %d lessons in total for this course.
Write the course outline in %s.
Start the work now.`,
		strings.Join(summaries, "\n"), lessonCount, language)
}

func lessonUserPrompt(topic, materials, language string) string {
	return fmt.Sprintf(`You should write a course for newcomers; they need detailed and vivid explanations to understand the topic.
A high-quality course should meet the requirements below:
(1) Contains enough facts, data and figures to be convincing
(2) The internal narrative is layered and logical, not a simple pile of items
Make sure all these requirements are considered when writing the lesson script content.
Please follow this procedure step-by-step when designing the course:
Step 1. Write down the teaching purpose of the lesson at the start of the script.
Step 2. Write down the outline of this lesson (aligned to the teaching purpose), then follow the outline to write the content. Make sure every concept in the outline is explained adequately in the course.
Your lesson topic and abstract is within the 「」 quotes, and the knowledge materials are within the 【】 brackets.
Lesson topic and abstract: 「%s」
Knowledge materials related to this lesson: 【%s】
The script should be written in %s.
Start writing the script of this lesson now.`,
		topic, materials, language)
}

func qaUserPrompt(question string, materials []string) string {
	return fmt.Sprintf(`You're a brilliant teaching assistant, skilled at answering a student's question based on given materials.
Student's question: 「%s」
Related materials: 【%s】
If the given materials are irrelevant to the student's question, please use your own knowledge to answer the question.
You need to break down the student's question first, find out what they really want to ask, and then try your best to give a comprehensive answer.
The language you're answering in should be aligned with what the student is using.
Now you're talking to the student. Please answer.`,
		question, strings.Join(materials, "\n"))
}
