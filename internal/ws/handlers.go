package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kz-league/backend/domain/common"
	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/internal/steamid"
)

// dispatch decodes and routes one inbound frame against session. It
// returns the reply payload's kind and body, or an error which the caller
// turns into a correlated error frame without closing the connection.
func dispatch(ctx context.Context, deps Deps, session *Session, kind string, payload json.RawMessage) (string, any, error) {
	switch kind {
	case KindMapChange:
		var p MapChangePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleMapLookup(ctx, deps, p.NewMap)

	case KindWantMapInfo:
		var p WantMapInfoPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleMapLookup(ctx, deps, p.Map)

	case KindPlayerJoin:
		var p PlayerJoinPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handlePlayerJoin(ctx, deps, session, p)

	case KindPlayerLeave:
		var p PlayerLeavePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handlePlayerLeave(ctx, deps, session, p)

	case KindWantPreferences:
		var p WantPreferencesPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantPreferences(ctx, deps, p)

	case KindWantWorldRecordsForCache:
		var p WantWorldRecordsForCachePayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantWorldRecordsForCache(ctx, deps, p)

	case KindWantCourseTop:
		var p WantCourseTopPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantCourseTop(ctx, deps, p)

	case KindWantPlayerRecords:
		var p WantPlayerRecordsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantPlayerRecords(ctx, deps, p)

	case KindWantPersonalBest:
		var p WantPersonalBestPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantPersonalBest(ctx, deps, p)

	case KindWantWorldRecords:
		var p WantWorldRecordsPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleWantWorldRecords(ctx, deps, p)

	case KindNewRecord:
		var p NewRecordPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", nil, err
		}
		return handleNewRecord(ctx, deps, session, p)

	default:
		return "", nil, fmt.Errorf("ws: unknown message kind %q", kind)
	}
}

func handleMapLookup(ctx context.Context, deps Deps, nameOrID string) (string, any, error) {
	m, err := resolveMap(ctx, deps, nameOrID)
	if err != nil {
		if errors.Is(err, mapcatalog.ErrMapNotFound) {
			return KindMapInfo, (*MapInfoPayload)(nil), nil
		}
		return "", nil, err
	}
	return KindMapInfo, &MapInfoPayload{ID: m.ID, Name: m.Name, GlobalStatus: string(m.GlobalStatus), Mappers: m.Mappers}, nil
}

func resolveMap(ctx context.Context, deps Deps, nameOrID string) (*mapcatalog.Map, error) {
	if id, err := strconv.ParseUint(nameOrID, 10, 32); err == nil {
		return deps.Maps.GetMap(ctx, uint32(id))
	}
	return deps.Maps.GetMapByName(ctx, nameOrID)
}

func handlePlayerJoin(ctx context.Context, deps Deps, session *Session, p PlayerJoinPayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.ID)
	if err != nil {
		return "", nil, err
	}

	pl, err := deps.Players.Join(ctx, sid, p.Name, p.IP)
	if err != nil {
		return "", nil, err
	}

	if _, exists := session.Players[sid]; exists {
		deps.Logger.Warn().Uint64("player_id", p.ID).Msg("ws: duplicate player_join")
	}
	session.Players[sid] = PlayerInfo{Name: p.Name}

	banned, err := deps.Bans.IsBanned(ctx, sid)
	if err != nil {
		return "", nil, err
	}

	return KindPlayerJoinAck, PlayerJoinAckPayload{IsBanned: banned, Preferences: pl.Preferences}, nil
}

func handlePlayerLeave(ctx context.Context, deps Deps, session *Session, p PlayerLeavePayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.ID)
	if err != nil {
		return "", nil, err
	}

	if _, exists := session.Players[sid]; !exists {
		deps.Logger.Warn().Uint64("player_id", p.ID).Msg("ws: player_leave for unknown player")
	}
	delete(session.Players, sid)

	if err := deps.Players.Leave(ctx, sid, p.Name, p.Preferences); err != nil {
		return "", nil, err
	}
	return "", nil, nil
}

func handleWantPreferences(ctx context.Context, deps Deps, p WantPreferencesPayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.PlayerID)
	if err != nil {
		return "", nil, err
	}
	raw, err := deps.Players.Preferences(ctx, sid)
	if err != nil {
		if errors.Is(err, player.ErrNotFound) {
			return KindPreferences, PreferencesPayload{}, nil
		}
		return "", nil, err
	}
	return KindPreferences, PreferencesPayload{Preferences: raw}, nil
}

func handleWantWorldRecordsForCache(ctx context.Context, deps Deps, p WantWorldRecordsForCachePayload) (string, any, error) {
	filterIDs, err := filterIDsForMap(ctx, deps, p.MapID)
	if err != nil {
		return "", nil, err
	}
	out := make([]RecordPayload, 0, len(filterIDs))
	for i := range filterIDs {
		page, err := deps.Records.List(ctx, record.ListFilters{Top: true, FilterID: &filterIDs[i], Limit: common.MaxLimit})
		if err != nil {
			return "", nil, err
		}
		for _, r := range page.Values {
			out = append(out, recordToPayload(r))
		}
	}
	return KindRecordsBatch, RecordsBatchPayload{Records: out}, nil
}

func filterIDsForMap(ctx context.Context, deps Deps, mapID uint32) ([]uint32, error) {
	courses, err := deps.Maps.ListCourses(ctx, mapID)
	if err != nil {
		return nil, err
	}
	var ids []uint32
	for _, c := range courses {
		for _, mode := range []mapcatalog.Mode{mapcatalog.Vanilla, mapcatalog.Classic} {
			for _, teleports := range []bool{false, true} {
				f, err := deps.Maps.ResolveFilter(ctx, c.ID, mode, teleports)
				if err == nil {
					ids = append(ids, f.ID)
				}
			}
		}
	}
	return ids, nil
}

func handleWantCourseTop(ctx context.Context, deps Deps, p WantCourseTopPayload) (string, any, error) {
	f, err := resolveFilter(ctx, deps, p.Map, p.Course, p.Mode, true)
	if err != nil {
		if errors.Is(err, mapcatalog.ErrMapNotFound) || errors.Is(err, mapcatalog.ErrFilterNotFound) {
			return KindCourseTop, CourseTopPayload{}, nil
		}
		return "", nil, err
	}

	nub, pro, err := deps.Records.TopForFilter(ctx, f.ID)
	if err != nil {
		return "", nil, err
	}
	out := CourseTopPayload{}
	if nub != nil {
		out.Nub = []RecordPayload{bestToPayload(nub.Best, f.ID)}
	}
	if pro != nil {
		out.Pro = []RecordPayload{bestToPayload(pro.Best, f.ID)}
	}
	return KindCourseTop, out, nil
}

func handleWantPlayerRecords(ctx context.Context, deps Deps, p WantPlayerRecordsPayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.PlayerID)
	if err != nil {
		return "", nil, err
	}
	filterIDs, err := filterIDsForMap(ctx, deps, p.MapID)
	if err != nil {
		return "", nil, err
	}
	rows, err := deps.Records.ListForPlayer(ctx, sid, filterIDs)
	if err != nil {
		return "", nil, err
	}
	out := make([]RecordPayload, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordToPayload(r))
	}
	return KindPlayerRecords, PlayerRecordsPayload{Records: out}, nil
}

func handleWantPersonalBest(ctx context.Context, deps Deps, p WantPersonalBestPayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.Player)
	if err != nil {
		return "", nil, err
	}

	f, err := resolveFilter(ctx, deps, p.Map, p.Course, p.Mode, true)
	if err != nil {
		if errors.Is(err, mapcatalog.ErrMapNotFound) || errors.Is(err, mapcatalog.ErrFilterNotFound) {
			return KindPersonalBest, PersonalBestPayload{}, nil
		}
		return "", nil, err
	}

	nub, pro, err := deps.Records.PersonalBest(ctx, f.ID, sid)
	if err != nil {
		return "", nil, err
	}
	out := PersonalBestPayload{}
	if nub != nil {
		rp := recordToPayload(nub)
		out.Nub = &rp
	}
	if pro != nil {
		rp := recordToPayload(pro)
		out.Pro = &rp
	}
	return KindPersonalBest, out, nil
}

func handleWantWorldRecords(ctx context.Context, deps Deps, p WantWorldRecordsPayload) (string, any, error) {
	f, err := resolveFilter(ctx, deps, p.Map, p.Course, p.Mode, true)
	if err != nil {
		if errors.Is(err, mapcatalog.ErrMapNotFound) || errors.Is(err, mapcatalog.ErrFilterNotFound) {
			return KindWorldRecords, WorldRecordsPayload{}, nil
		}
		return "", nil, err
	}

	nub, pro, err := deps.Records.TopForFilter(ctx, f.ID)
	if err != nil {
		return "", nil, err
	}
	out := WorldRecordsPayload{}
	if nub != nil {
		rp := bestToPayload(nub.Best, f.ID)
		out.Nub = &rp
	}
	if pro != nil {
		rp := bestToPayload(pro.Best, f.ID)
		out.Pro = &rp
	}
	return KindWorldRecords, out, nil
}

func handleNewRecord(ctx context.Context, deps Deps, session *Session, p NewRecordPayload) (string, any, error) {
	sid, err := steamid.FromUint64(p.PlayerID)
	if err != nil {
		return "", nil, err
	}

	if !deps.Local {
		filter, ferr := deps.Maps.GetFilter(ctx, p.FilterID)
		if ferr != nil {
			return "", nil, ferr
		}
		if err := deps.Plugins.VerifyModeChecksum(ctx, session.PluginVersionID, string(filter.Mode), p.ModeMD5); err != nil {
			return "", nil, err
		}
		if len(p.Styles) > 0 {
			if err := deps.Plugins.VerifyStyleChecksums(ctx, session.PluginVersionID, p.Styles); err != nil {
				return "", nil, err
			}
		}
	}

	var styleBits uint64
	if len(p.Styles) > 0 {
		names := make([]string, 0, len(p.Styles))
		for name := range p.Styles {
			names = append(names, name)
		}
		bits, serr := deps.Plugins.ResolveStyleBits(ctx, session.PluginVersionID, names)
		if serr != nil {
			return "", nil, serr
		}
		styleBits = bits
	}

	result, err := deps.Records.Submit(ctx, record.NewRecord{
		FilterID:        p.FilterID,
		PlayerID:        sid,
		ServerID:        session.ServerID,
		PluginVersionID: session.PluginVersionID,
		Styles:          record.Styles(styleBits),
		Teleports:       p.Teleports,
		TimeSecs:        p.Time,
	})
	if err != nil {
		return "", nil, err
	}

	return KindNewRecordAck, NewRecordAckPayload{
		RecordID:  result.RecordID.String(),
		NubRank:   result.PBData.NubRank,
		NubPoints: result.PBData.NubPoints,
		ProRank:   result.PBData.ProRank,
		ProPoints: result.PBData.ProPoints,
	}, nil
}

// resolveFilter turns (map name, course name, mode) into the course's
// filter for the given teleports flag, the common resolution step behind
// WantCourseTop/WantPersonalBest/WantWorldRecords.
func resolveFilter(ctx context.Context, deps Deps, mapName, courseName, mode string, teleports bool) (*mapcatalog.Filter, error) {
	m, err := deps.Maps.GetMapByName(ctx, mapName)
	if err != nil {
		return nil, err
	}
	c, err := deps.Maps.GetCourseByName(ctx, m.ID, courseName)
	if err != nil {
		return nil, mapcatalog.ErrFilterNotFound
	}
	return deps.Maps.ResolveFilter(ctx, c.ID, mapcatalog.Mode(mode), teleports)
}

func recordToPayload(r *record.Record) RecordPayload {
	return RecordPayload{
		ID:          r.ID.String(),
		FilterID:    r.FilterID,
		PlayerID:    r.PlayerID.Uint64(),
		ServerID:    r.ServerID,
		Teleports:   r.Teleports,
		TimeSecs:    r.TimeSecs,
		SubmittedAt: r.SubmittedAt,
	}
}

func bestToPayload(b record.Best, filterID uint32) RecordPayload {
	return RecordPayload{
		ID:        b.RecordID.String(),
		FilterID:  filterID,
		PlayerID:  b.PlayerID.Uint64(),
		TimeSecs:  b.TimeSecs,
	}
}
