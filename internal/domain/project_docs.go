package domain

type ProjectDocuments struct {
	GanttChart   FileSlot `yaml:"gantt_chart"`
	DPR          FileSlot `yaml:"dpr"`
	Presentation FileSlot `yaml:"presentation"`
}

func (p *ProjectDocuments) RequiredFiles() []LabeledSlot {
	return []LabeledSlot{
		{"gantt chart", p.GanttChart},
		{"detailed project report", p.DPR},
		{"presentation", p.Presentation},
	}
}
