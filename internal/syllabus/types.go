package syllabus

// Subject is a subject catalog entry loaded from YAML: the topic list the
// wizard offers plus the prerequisite table the scheduler orders by.
type Subject struct {
	Name          string              `yaml:"name"`
	ExamCode      string              `yaml:"exam_code"`
	Topics        []string            `yaml:"topics"`
	Prerequisites map[string][]string `yaml:"prerequisites"`
	Subtopics     map[string][]string `yaml:"subtopics"`
}
