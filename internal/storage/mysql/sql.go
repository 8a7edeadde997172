package mysql

const insertHotelSQL = `
INSERT INTO hotels (name, location, description, image_url)
VALUES (?, ?, ?, ?)
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, room_type, price_per_night, available)
VALUES (?, ?, ?, ?)
`

// rooms go with their hotels through the FK cascade
const clearCatalogSQL = `DELETE FROM hotels`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getHotelSQL = `
SELECT id, name, location, description, image_url
FROM hotels
WHERE id = ?
`

const listRoomsSQL = `
SELECT id, hotel_id, room_type, price_per_night, available
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

// One row per hotel with its cheapest room; NULL when it has none.
// The two LIKE params are '%<term>%' or '%' for no filter.
const listCardsSQL = `
SELECT h.id, h.name, h.location, h.description, h.image_url, MIN(r.price_per_night)
FROM hotels h
LEFT JOIN rooms r ON r.hotel_id = h.id
WHERE LOWER(h.name) LIKE ? AND LOWER(h.location) LIKE ?
GROUP BY h.id, h.name, h.location, h.description, h.image_url
ORDER BY h.id
`
