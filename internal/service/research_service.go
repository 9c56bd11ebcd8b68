package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"project-ledger-be/internal/constant"
	"project-ledger-be/internal/dto"
	"project-ledger-be/internal/entity"
	"project-ledger-be/internal/mapper"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/pkg/content"
	"project-ledger-be/pkg/ledger"
	"project-ledger-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	contextNoteLimit    = 10
	contextNoteRunes    = 600
	contextTotalRunes   = 6000
	weaveNoteRunes      = 800
	weaveTotalRunes     = 12000
	shredInputRunes     = 20000
	shredFallbackRunes  = 1200
	titleRunes          = 80
	defaultOutlineTitle = "Project Outline"
)

// ResearchModel is the AI collaborator behind the research desk. *llm.Chain
// satisfies it.
type ResearchModel interface {
	Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error)
	GenerateGrounded(ctx context.Context, prompt string, opts ...llm.Option) (llm.GroundedResponse, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type IResearchService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	Weave(ctx context.Context, req *dto.WeaveRequest) (*dto.WeaveResponse, error)
	Shred(ctx context.Context, req *dto.ShredRequest) (*dto.ShredResponse, error)
	Image(ctx context.Context, req *dto.ImageRequest) (*dto.ImageResponse, error)
}

type researchService struct {
	store  *ledger.Store
	model  ResearchModel
	mapper *mapper.NoteMapper
	logger logger.ILogger
}

func NewResearchService(store *ledger.Store, model ResearchModel, log logger.ILogger) IResearchService {
	return &researchService{
		store:  store,
		model:  model,
		mapper: mapper.NewNoteMapper(),
		logger: log,
	}
}

func (s *researchService) notebook(id string) (entity.Notebook, []entity.Note, error) {
	snap := s.store.Snapshot()
	nb, ok := snap.FindNotebook(id)
	if !ok {
		return entity.Notebook{}, nil, fmt.Errorf("%w: %s", ledger.ErrNotebookNotFound, id)
	}
	return nb, snap.NotesIn(id), nil
}

// projectContext describes the notebook and its most recent notes for a prompt.
// Notes are stored newest first.
func projectContext(nb entity.Notebook, notes []entity.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Notebook: %s\n", nb.Title)
	if nb.CoreConcept != "" {
		fmt.Fprintf(&b, "Core concept: %s\n", content.ForPrompt(nb.CoreConcept, contextNoteRunes))
	}
	for i, n := range notes {
		if i == contextNoteLimit {
			break
		}
		text := content.ForPrompt(n.Content, contextNoteRunes)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", text)
	}
	return content.Clip(b.String(), contextTotalRunes)
}

func (s *researchService) addNotes(ctx context.Context, notes ...entity.Note) error {
	_, err := s.store.Mutate(ctx, func(snap *ledger.Snapshot) error {
		// AddNote prepends, so insert in reverse to keep notes[0] on top.
		for i := len(notes) - 1; i >= 0; i-- {
			if err := snap.AddNote(notes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

func (s *researchService) fail(op string, err error) error {
	s.logger.Warn("RESEARCH", "Collaborator call failed", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
	return err
}

func (s *researchService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	nb, notes, err := s.notebook(req.NotebookId)
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)
	prompt := constant.ResearchSystemPromptV1 + "\n\n" +
		fmt.Sprintf(constant.ResearchUserPromptV1, projectContext(nb, notes), question)

	res, err := s.model.GenerateGrounded(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, s.fail("ask", err)
	}

	urls := res.URLs
	if urls == nil {
		urls = []string{}
	}
	note := entity.Note{
		Id:         uuid.NewString(),
		NotebookId: nb.Id,
		Content:    res.Text,
		Type:       entity.NoteTypeResearch,
		Timestamp:  time.Now().UnixMilli(),
		Title:      content.TitleFrom(question, titleRunes),
		Question:   question,
		Metadata:   entity.ResearchMetadata{URLs: urls},
	}
	if err := s.addNotes(ctx, note); err != nil {
		return nil, err
	}

	noteRes, err := s.mapper.ToResponse(note)
	if err != nil {
		return nil, err
	}
	return &dto.AskResponse{Text: res.Text, URLs: urls, Note: noteRes}, nil
}

func joinForWeave(notes []entity.Note) string {
	if len(notes) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, n := range notes {
		text := content.ForPrompt(n.Content, weaveNoteRunes)
		if n.Title != "" {
			fmt.Fprintf(&b, "- [%s] %s\n", n.Title, text)
		} else {
			fmt.Fprintf(&b, "- %s\n", text)
		}
	}
	return content.Clip(b.String(), weaveTotalRunes)
}

func (s *researchService) Weave(ctx context.Context, req *dto.WeaveRequest) (*dto.WeaveResponse, error) {
	nb, notes, err := s.notebook(req.NotebookId)
	if err != nil {
		return nil, err
	}

	var ledgerNotes, research []entity.Note
	for _, n := range notes {
		switch n.Type {
		case entity.NoteTypeResearch:
			research = append(research, n)
		case entity.NoteTypeOutline:
			// earlier outlines are not source material
		default:
			ledgerNotes = append(ledgerNotes, n)
		}
	}

	text, err := s.model.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.WeaveSystemPromptV1},
		{Role: "user", Content: fmt.Sprintf(constant.WeaveUserPromptV1, joinForWeave(ledgerNotes), joinForWeave(research))},
	}, llm.WithTemperature(0.4))
	if err != nil {
		return nil, s.fail("weave", err)
	}

	title := content.TitleFrom(text, titleRunes)
	if title == "" {
		title = defaultOutlineTitle
	}
	note := entity.Note{
		Id:         uuid.NewString(),
		NotebookId: nb.Id,
		Content:    text,
		Type:       entity.NoteTypeOutline,
		Timestamp:  time.Now().UnixMilli(),
		Title:      title,
	}
	if err := s.addNotes(ctx, note); err != nil {
		return nil, err
	}

	noteRes, err := s.mapper.ToResponse(note)
	if err != nil {
		return nil, err
	}
	return &dto.WeaveResponse{Text: text, Note: noteRes}, nil
}

type shreddedNote struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// parseShredded reads the model reply: a JSON array, optionally fenced as a
// markdown code block or wrapped in {"notes": [...]}.
func parseShredded(reply string) ([]shreddedNote, bool) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var items []shreddedNote
	if err := json.Unmarshal([]byte(reply), &items); err != nil {
		var wrapped struct {
			Notes []shreddedNote `json:"notes"`
		}
		if err := json.Unmarshal([]byte(reply), &wrapped); err != nil {
			return nil, false
		}
		items = wrapped.Notes
	}

	kept := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Content) != "" {
			kept = append(kept, it)
		}
	}
	return kept, len(kept) > 0
}

func (s *researchService) Shred(ctx context.Context, req *dto.ShredRequest) (*dto.ShredResponse, error) {
	nb, _, err := s.notebook(req.NotebookId)
	if err != nil {
		return nil, err
	}

	reply, err := s.model.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.ShredSystemPromptV1},
		{Role: "user", Content: content.ForPrompt(req.Text, shredInputRunes)},
	}, llm.WithJSONResponse(), llm.WithTemperature(0.2))
	if err != nil {
		return nil, s.fail("shred", err)
	}

	items, ok := parseShredded(reply)
	if !ok {
		s.logger.Warn("RESEARCH", "Shred reply was not a JSON note list, splitting paragraphs", map[string]interface{}{
			"reply_length": len(reply),
		})
		for _, chunk := range content.SplitParagraphs(req.Text, shredFallbackRunes) {
			items = append(items, shreddedNote{Content: chunk})
		}
	}

	now := time.Now().UnixMilli()
	notes := make([]entity.Note, 0, len(items))
	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = content.TitleFrom(it.Content, titleRunes)
		}
		notes = append(notes, entity.Note{
			Id:         uuid.NewString(),
			NotebookId: nb.Id,
			Content:    strings.TrimSpace(it.Content),
			Type:       entity.NoteTypeRaw,
			Timestamp:  now,
			Title:      title,
			Tags:       it.Tags,
		})
	}
	if len(notes) > 0 {
		if err := s.addNotes(ctx, notes...); err != nil {
			return nil, err
		}
	}

	responses, err := s.mapper.ToResponses(notes)
	if err != nil {
		return nil, err
	}
	return &dto.ShredResponse{Notes: responses}, nil
}

func (s *researchService) Image(ctx context.Context, req *dto.ImageRequest) (*dto.ImageResponse, error) {
	nb, _, err := s.notebook(req.NotebookId)
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	dataURI, err := s.model.GenerateImage(ctx, fmt.Sprintf(constant.ImagePromptV1, prompt))
	if err != nil {
		return nil, s.fail("image", err)
	}

	note := entity.Note{
		Id:         uuid.NewString(),
		NotebookId: nb.Id,
		Content:    prompt,
		Type:       entity.NoteTypeLedger,
		Timestamp:  time.Now().UnixMilli(),
		Title:      content.TitleFrom(prompt, titleRunes),
		Metadata:   entity.ImageMetadata{ImageData: dataURI, Prompt: prompt},
	}
	if err := s.addNotes(ctx, note); err != nil {
		return nil, err
	}

	noteRes, err := s.mapper.ToResponse(note)
	if err != nil {
		return nil, err
	}
	return &dto.ImageResponse{ImageData: dataURI, Note: noteRes}, nil
}
